package synth

import (
	"fmt"
	"sort"
	"time"
)

// ProductRecord is a synthetic sales row, unrelated to the catalog.
type ProductRecord struct {
	ID       int     `json:"id"`
	Name     string  `json:"name"`
	Category string  `json:"category"`
	Price    float64 `json:"price"`
	Sales    int     `json:"sales"`
	Revenue  float64 `json:"revenue"`
	Status   string  `json:"status"`
	Rating   float64 `json:"rating"`
	Stock    int     `json:"stock"`
}

// UserRecord is a synthetic customer row.
type UserRecord struct {
	ID               int     `json:"id"`
	Name             string  `json:"name"`
	Email            string  `json:"email"`
	City             string  `json:"city"`
	RegistrationDate string  `json:"registrationDate"`
	LastActivity     string  `json:"lastActivity"`
	TotalSpent       float64 `json:"totalSpent"`
	OrderCount       int     `json:"orderCount"`
	Source           string  `json:"source"`
	Active           bool    `json:"isActive"`
}

var (
	recordCategories = []string{"Electronics", "Fashion", "Home & Garden", "Sports", "Books"}
	recordStatuses   = []string{"active", "inactive", "out-of-stock"}
	userCities       = []string{"São Paulo", "Rio de Janeiro", "Belo Horizonte", "Salvador", "Brasília", "Fortaleza"}
	userSources      = []string{"Google", "Facebook", "Instagram", "Email", "Direct"}
)

const recordYear = 2024

// Products generates count sales rows sorted by revenue, highest first.
func Products(r *Random, count int) []ProductRecord {
	out := make([]ProductRecord, 0, max(count, 0))
	for i := 1; i <= count; i++ {
		category := Choice(r, recordCategories)
		price := r.FloatRange(29.99, 999.99)
		sales := r.Int(10, 500)
		status := Choice(r, recordStatuses)
		rating := round1(r.FloatRange(3.5, 5.0))
		stock := r.Int(0, 200)
		out = append(out, ProductRecord{
			ID:       i,
			Name:     fmt.Sprintf("%s Product %d", category, i),
			Category: category,
			Price:    round2(price),
			Sales:    sales,
			Revenue:  round2(price * float64(sales)),
			Status:   status,
			Rating:   rating,
			Stock:    stock,
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Revenue > out[j].Revenue })
	return out
}

// Users generates count customers registered during 2024, sorted by total
// spend, highest first.
func Users(r *Random, count int) []UserRecord {
	out := make([]UserRecord, 0, max(count, 0))
	for i := 1; i <= count; i++ {
		registered := time.Date(recordYear, time.Month(r.Int(0, 11)+1), r.Int(1, 28), 0, 0, 0, 0, time.UTC)
		lastActive := time.Date(recordYear, time.December, r.Int(1, 25), 0, 0, 0, 0, time.UTC)
		city := Choice(r, userCities)
		spent := round2(r.FloatRange(50, 2500))
		orders := r.Int(1, 25)
		source := Choice(r, userSources)
		active := r.Float() > 0.2
		out = append(out, UserRecord{
			ID:               i,
			Name:             fmt.Sprintf("User %d", i),
			Email:            fmt.Sprintf("user%d@email.com", i),
			City:             city,
			RegistrationDate: registered.Format(time.DateOnly),
			LastActivity:     lastActive.Format(time.DateOnly),
			TotalSpent:       spent,
			OrderCount:       orders,
			Source:           source,
			Active:           active,
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].TotalSpent > out[j].TotalSpent })
	return out
}

// SortByRegistration orders users by registration date, newest first. ISO
// dates compare correctly as strings.
func SortByRegistration(users []UserRecord) []UserRecord {
	out := append([]UserRecord(nil), users...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].RegistrationDate > out[j].RegistrationDate })
	return out
}

func limit[T any](items []T, n int) []T {
	if n < 0 {
		n = 0
	}
	if n > len(items) {
		n = len(items)
	}
	return items[:n]
}
