package catalog

import "time"

func sampleDate(day string) time.Time {
	t, err := time.Parse(time.DateOnly, day)
	if err != nil {
		panic(err)
	}
	return t
}

// SampleProducts is the bootstrap fixture written to an empty catalog. ids
// supplies one identifier per product.
func SampleProducts(ids func() string) []Product {
	samples := []Product{
		{
			Name:        "iPhone 15 Pro Max",
			Description: "Latest iPhone with advanced camera system and A17 Pro chip",
			Category:    "Electronics",
			Price:       1199.99,
			Cost:        800,
			SKU:         "IPH-15-PM-256",
			Stock:       45,
			MinStock:    10,
			MaxStock:    100,
			Tags:        []string{"apple", "smartphone", "premium"},
			Images:      []string{"https://via.placeholder.com/300x300?text=iPhone+15+Pro"},
			Weight:      0.221,
			Dimensions:  Dimensions{Length: 15.9, Width: 7.69, Height: 0.83},
			CreatedAt:   sampleDate("2024-01-15"),
		},
		{
			Name:        "Nike Air Jordan 1",
			Description: "Classic basketball sneakers with premium leather construction",
			Category:    "Fashion",
			Price:       170,
			Cost:        85,
			SKU:         "NIKE-AJ1-BRW-42",
			Stock:       28,
			MinStock:    15,
			MaxStock:    80,
			Tags:        []string{"nike", "sneakers", "basketball"},
			Images:      []string{"https://via.placeholder.com/300x300?text=Air+Jordan+1"},
			Weight:      0.8,
			Dimensions:  Dimensions{Length: 32, Width: 20, Height: 12},
			CreatedAt:   sampleDate("2024-01-20"),
		},
		{
			Name:        `Samsung 55" 4K Smart TV`,
			Description: "Crystal UHD 4K Smart TV with Tizen OS and HDR10+ support",
			Category:    "Electronics",
			Price:       799.99,
			Cost:        500,
			SKU:         "SAM-55-4K-CU8000",
			Stock:       12,
			MinStock:    5,
			MaxStock:    30,
			Tags:        []string{"samsung", "tv", "4k", "smart"},
			Images:      []string{"https://via.placeholder.com/300x300?text=Samsung+TV"},
			Weight:      15.5,
			Dimensions:  Dimensions{Length: 123.1, Width: 70.7, Height: 5.9},
			CreatedAt:   sampleDate("2024-02-01"),
		},
		{
			Name:        "Ergonomic Office Chair",
			Description: "High-back mesh office chair with lumbar support and adjustable arms",
			Category:    "Home & Garden",
			Price:       299.99,
			Cost:        150,
			SKU:         "OFF-CHAIR-ERG-BLK",
			Stock:       18,
			MinStock:    8,
			MaxStock:    40,
			Tags:        []string{"office", "chair", "ergonomic", "furniture"},
			Images:      []string{"https://via.placeholder.com/300x300?text=Office+Chair"},
			Weight:      18.2,
			Dimensions:  Dimensions{Length: 66, Width: 66, Height: 114},
			CreatedAt:   sampleDate("2024-02-10"),
		},
		{
			Name:        "Wireless Gaming Headset",
			Description: "7.1 surround sound gaming headset with noise cancellation",
			Category:    "Electronics",
			Price:       129.99,
			Cost:        65,
			SKU:         "GAME-HEAD-WL-RGB",
			Stock:       35,
			MinStock:    20,
			MaxStock:    60,
			Tags:        []string{"gaming", "headset", "wireless", "rgb"},
			Images:      []string{"https://via.placeholder.com/300x300?text=Gaming+Headset"},
			Weight:      0.32,
			Dimensions:  Dimensions{Length: 19, Width: 17, Height: 9},
			CreatedAt:   sampleDate("2024-02-15"),
		},
	}
	for i := range samples {
		samples[i].ID = ids()
		samples[i].Status = StatusActive
		samples[i].UpdatedAt = samples[i].CreatedAt
		samples[i].CreatedBy = "1"
		samples[i].UpdatedBy = "1"
	}
	return samples
}
