package core

import "time"

type Company struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	RegionCode *string `json:"regionCode,omitempty"`
}

type User struct {
	ID            string    `json:"id"`
	CompanyID     string    `json:"companyId"`
	Email         string    `json:"email"`
	Role          string    `json:"role"`
	MonthlySalary *float64  `json:"monthlySalary,omitempty"`
	HourlyCost    *float64  `json:"hourlyCost,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
}
