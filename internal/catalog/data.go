package catalog

import "github.com/johnrirwin/yatra/internal/models"

const placeholderImage = "https://picsum.photos/400/300"

var accommodations = []models.Accommodation{
	{
		Name:      "The Mountain View",
		Kind:      models.AccommodationHotel,
		Location:  "Shimla, Himachal Pradesh",
		Rating:    4.5,
		Amenities: []string{"WiFi", "Heater", "Restaurant"},
		Price:     "₹4500/night",
		Image:     placeholderImage,
		ImageHint: "mountain hotel",
	},
	{
		Name:      "Desert Mirage Resort",
		Kind:      models.AccommodationHotel,
		Location:  "Jaisalmer, Rajasthan",
		Rating:    4.8,
		Amenities: []string{"Pool", "Camel Safari", "WiFi"},
		Price:     "₹7000/night",
		Image:     placeholderImage,
		ImageHint: "desert resort",
	},
	{
		Name:      "Backwater Bungalows",
		Kind:      models.AccommodationHotel,
		Location:  "Alleppey, Kerala",
		Rating:    4.7,
		Amenities: []string{"Houseboat", "Free Breakfast", "AC"},
		Price:     "₹6000/night",
		Image:     placeholderImage,
		ImageHint: "beach bungalow",
	},
	{
		Name:      "City Comfort Inn",
		Kind:      models.AccommodationHotel,
		Location:  "New Delhi",
		Rating:    4.1,
		Amenities: []string{"WiFi", "Room Service", "Airport Shuttle"},
		Price:     "₹3500/night",
		Image:     placeholderImage,
		ImageHint: "city hotel",
	},
	{
		Name:      "Gita Bhavan",
		Kind:      models.AccommodationDharamshala,
		Location:  "Rishikesh, Uttarakhand",
		Rating:    4.2,
		Amenities: []string{"Ganga View", "Satsang Hall", "Basic Rooms"},
		Price:     "Donation based",
		Image:     placeholderImage,
		ImageHint: "ashram building",
	},
	{
		Name:      "Bangur Dharamshala",
		Kind:      models.AccommodationDharamshala,
		Location:  "Nathdwara, Rajasthan",
		Rating:    4.0,
		Amenities: []string{"AC/Non-AC", "Close to Temple", "Canteen"},
		Price:     "₹500/night",
		Image:     placeholderImage,
		ImageHint: "temple guesthouse",
	},
}

var buses = []models.BusRoute{
	{Operator: "RedBus", From: "Delhi", To: "Jaipur", Type: "Volvo A/C Sleeper", Price: "₹700"},
	{Operator: "HRTC", From: "Chandigarh", To: "Manali", Type: "Himsuta A/C", Price: "₹1200"},
}

var trains = []models.TrainRoute{
	{Name: "Shatabdi Express", From: "New Delhi (NDLS)", To: "Bhopal (BPL)", Class: "AC Chair Car", Price: "₹1500"},
	{Name: "Rajdhani Express", From: "Mumbai (BCT)", To: "New Delhi (NDLS)", Class: "AC 2 Tier", Price: "₹3500"},
}

var cabs = []models.CabService{
	{Name: "Himalayan Nomad Cabs", Location: "Manali, Himachal Pradesh", Contact: "+91-9876543210", IsVerified: true, Price: "Approx. ₹2500/day"},
	{Name: "Rann Riders", Location: "Bhuj, Gujarat", Contact: "+91-9876543211", IsVerified: true, Price: "Approx. ₹3000/day for SUV"},
	{Name: "Coorg Cabs", Location: "Madikeri, Karnataka", Contact: "+91-9876543212", IsVerified: false, Price: "Approx. ₹2200/day"},
	{Name: "Sikkim Taxi Service", Location: "Gangtok, Sikkim", Contact: "+91-9876543213", IsVerified: true, Price: "Point to point basis"},
}
