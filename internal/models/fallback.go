package models

// Static fallback dataset served when the live catalog comes back empty,
// so the storefront never renders a blank menu.

// FallbackCategories mirrors the launch menu's category layout
func FallbackCategories() []*Category {
	return []*Category{
		{ID: "fallback-cat-1", Name: "Smoked Meats", DisplayOrder: 1, IsActive: true},
		{ID: "fallback-cat-2", Name: "Party Sets", DisplayOrder: 2, IsActive: true},
		{ID: "fallback-cat-3", Name: "Sides", DisplayOrder: 3, IsActive: true},
	}
}

// FallbackProducts mirrors the launch menu
func FallbackProducts() []*Product {
	return []*Product{
		{
			ID:          "fallback-1",
			Name:        "Smoked Beef Brisket",
			Description: "12-hour oak-smoked brisket, sliced and served with house barbecue sauce.",
			Price:       45.00,
			Category:    "Smoked Meats",
			MinPax:      10,
			IsPopular:   true,
			IsActive:    true,
			Unit:        "per kg",
		},
		{
			ID:          "fallback-2",
			Name:        "Smoked Pork Ribs",
			Description: "St. Louis cut ribs with a honey glaze.",
			Price:       38.00,
			Category:    "Smoked Meats",
			MinPax:      10,
			IsActive:    true,
			Unit:        "per rack",
		},
		{
			ID:          "fallback-3",
			Name:        "Backyard BBQ Set",
			Description: "Brisket, ribs, smoked chicken and three sides for your gathering.",
			Price:       288.00,
			Category:    "Party Sets",
			MinPax:      15,
			IsPopular:   true,
			IsActive:    true,
			Unit:        "per set",
		},
		{
			ID:          "fallback-4",
			Name:        "Office Lunch Set",
			Description: "Pulled pork sliders with slaw and fries, individually boxed.",
			Price:       16.50,
			Category:    "Party Sets",
			MinPax:      20,
			IsActive:    true,
			Unit:        "per box",
		},
		{
			ID:          "fallback-5",
			Name:        "Mac and Cheese Tray",
			Description: "Three-cheese bake, serves 10.",
			Price:       48.00,
			Category:    "Sides",
			IsActive:    true,
			Unit:        "per tray",
		},
		{
			ID:          "fallback-6",
			Name:        "Charred Corn Ribs",
			Description: "Corn ribs with smoked paprika butter, serves 10.",
			Price:       32.00,
			Category:    "Sides",
			IsActive:    true,
			Unit:        "per tray",
		},
	}
}

// FallbackTestimonials keeps the carousel populated before any live reviews
// are approved
func FallbackTestimonials() []*Testimonial {
	return []*Testimonial{
		{ID: "fallback-t-1", Name: "Rachel T.", Event: "Wedding reception", Quote: "The brisket was the talk of the night. Setup was punctual and fuss-free.", Rating: 5, IsActive: true},
		{ID: "fallback-t-2", Name: "Marcus L.", Event: "Company D&D", Quote: "Ordered for 80 pax and everything arrived hot. Will book again.", Rating: 5, IsActive: true},
		{ID: "fallback-t-3", Name: "Priya N.", Event: "Birthday party", Quote: "Generous portions and the ribs fall right off the bone.", Rating: 4, IsActive: true},
	}
}
