package providerRepo

import (
	"time"

	"medconnect/models"
)

var weekdays = []time.Weekday{time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday}

// MockCatalog returns the demo provider catalog used when no database is configured.
func MockCatalog() []models.Provider {
	schedule := func(p models.Provider) models.Provider {
		if p.WorkingDays == nil {
			p.WorkingDays = weekdays
		}
		if p.WorkingHours == (models.WorkingHours{}) {
			p.WorkingHours = models.WorkingHours{Start: 9, End: 17}
		}
		if p.SlotDurationMinutes == 0 {
			p.SlotDurationMinutes = 30
		}
		if p.BookedSlots == nil {
			p.BookedSlots = map[string][]string{}
		}
		return p
	}

	return []models.Provider{
		schedule(models.Provider{
			ID:         "1",
			Name:       "Dr. Sarah Wilson",
			Specialty:  "Cardiology",
			Location:   "Downtown Medical Center",
			Coordinate: models.Coordinate{Latitude: 40.7589, Longitude: -73.9851},
			Rating:     4.9,
			Reviews:    127,
			Price:      "$150",
			Services:   []string{"Consultation", "Cardiac Screening", "Follow-up Care"},
			Bio:        "Board-certified cardiologist with 15+ years of experience in interventional cardiology.",
			Phone:      "+1 (555) 123-4567",
			Email:      "dr.wilson@medcenter.com",
			BookedSlots: map[string][]string{
				"2024-01-15": {"10:00", "14:30", "15:00"},
				"2024-01-16": {"09:00", "11:30", "16:00"},
				"2024-01-17": {"10:30", "13:00", "15:30"},
			},
			UnavailableDates: []string{"2024-01-18"},
		}),
		schedule(models.Provider{
			ID:         "2",
			Name:       "Dr. Michael Chen",
			Specialty:  "General Medicine",
			Location:   "Family Health Clinic",
			Coordinate: models.Coordinate{Latitude: 40.7505, Longitude: -73.9934},
			Rating:     4.8,
			Reviews:    89,
			Price:      "$120",
			Services:   []string{"Annual Physical", "Preventive Care", "Chronic Disease Management"},
			Bio:        "Family medicine physician focused on preventive care and chronic disease management.",
			Phone:      "+1 (555) 234-5678",
			Email:      "dr.chen@familyhealth.com",
			Breaks:     []models.Break{{Start: "12:00", End: "13:00", Label: "Lunch"}},
		}),
		schedule(models.Provider{
			ID:                  "3",
			Name:                "Dr. Emma Davis",
			Specialty:           "Dermatology",
			Location:            "Skin Care Center",
			Coordinate:          models.Coordinate{Latitude: 40.7282, Longitude: -74.0776},
			Rating:              4.9,
			Reviews:             156,
			Price:               "$180",
			Services:            []string{"Skin Examination", "Cosmetic Procedures", "Acne Treatment"},
			Bio:                 "Dermatologist specializing in cosmetic and medical dermatology treatments.",
			Phone:               "+1 (555) 345-6789",
			Email:               "dr.davis@skincare.com",
			WorkingDays:         []time.Weekday{time.Tuesday, time.Wednesday, time.Thursday, time.Friday, time.Saturday},
			WorkingHours:        models.WorkingHours{Start: 10, End: 18},
			SlotDurationMinutes: 45,
		}),
		schedule(models.Provider{
			ID:         "4",
			Name:       "Dr. James Rodriguez",
			Specialty:  "Pediatrics",
			Location:   "Children's Health Center",
			Coordinate: models.Coordinate{Latitude: 40.7831, Longitude: -73.9712},
			Rating:     4.7,
			Reviews:    203,
			Price:      "$140",
			Services:   []string{"Well-child Visits", "Vaccinations", "Developmental Screening"},
			Bio:        "Pediatrician with expertise in child development and preventive care.",
			Phone:      "+1 (555) 456-7890",
			Email:      "dr.rodriguez@childhealth.com",
			Breaks:     []models.Break{{Start: "12:00", End: "13:00", Label: "Lunch"}},
		}),
		schedule(models.Provider{
			ID:                  "5",
			Name:                "Dr. Lisa Thompson",
			Specialty:           "Psychology",
			Location:            "Mental Wellness Center",
			Coordinate:          models.Coordinate{Latitude: 40.7614, Longitude: -73.9776},
			Rating:              4.8,
			Reviews:             94,
			Price:               "$160",
			Services:            []string{"Individual Therapy", "Cognitive Behavioral Therapy", "Anxiety Treatment"},
			Bio:                 "Licensed psychologist specializing in anxiety, depression, and cognitive behavioral therapy.",
			Phone:               "+1 (555) 567-8901",
			Email:               "dr.thompson@mentalwellness.com",
			WorkingHours:        models.WorkingHours{Start: 8, End: 16},
			SlotDurationMinutes: 60,
		}),
	}
}
