package rules

import "github.com/saffron-ledger/saffron/internal/model"

// DefaultTable returns the built-in keyword scoring table. Keywords are in
// normalized form. The table is data, not control flow: a custom table can be
// loaded from YAML and swapped in without touching the scorer.
func DefaultTable() Table {
	return Table{
		model.CategoryFood: {
			{
				Include: []string{
					"starbucks", "mcdonald", "chipotle", "dunkin", "subway",
					"taco", "burger", "pizza", "restaurant", "cafe", "coffee",
					"deli", "bakery", "diner", "sushi", "noodle", "grill",
					"doordash", "grubhub", "uber eats", "wendys", "kfc", "panera",
				},
				Weight: 0.8,
			},
			{
				Include: []string{
					"grocery", "whole foods", "trader joe", "safeway", "kroger",
					"aldi", "food mart", "supermarket",
				},
				Weight: 0.7,
			},
			{
				// Apple hardware purchases share incidental keyword overlap
				// with food merchants; pull their score back down.
				Exclude: []string{"apple store", "app store"},
				Weight:  -0.6,
			},
		},
		model.CategoryTransportation: {
			{
				Include: []string{
					"uber", "lyft", "shell", "chevron", "exxon", "mobil",
					"gas", "fuel", "parking", "toll", "transit", "metro",
					"amtrak", "taxi", "airline", "airways",
				},
				Weight: 0.8,
			},
			{
				// "uber eats" is food delivery, not a ride.
				Exclude: []string{"uber eats"},
				Weight:  -0.4,
			},
		},
		model.CategoryShopping: {
			{
				Include: []string{
					"amazon", "amzn", "walmart", "target", "best buy", "ebay",
					"etsy", "nordstrom", "macys", "ikea", "home depot", "lowes",
					"costco", "marshalls", "tj maxx",
				},
				Weight: 0.8,
			},
		},
		model.CategoryUtilities: {
			{
				Include: []string{
					"electric", "water", "sewer", "utility", "utilities",
					"energy", "gas works", "power light", "con edison",
					"national grid", "duke energy",
				},
				Weight: 0.7,
			},
		},
		model.CategoryHealth: {
			{
				Include: []string{
					"pharmacy", "cvs", "walgreens", "rite aid", "doctor",
					"dental", "clinic", "hospital", "medical", "urgent care",
					"optometry", "vision", "labcorp",
				},
				Weight: 0.75,
			},
		},
		model.CategoryEntertainment: {
			{
				Include: []string{
					"cinema", "movie", "theater", "theatre", "amc", "regal",
					"concert", "ticketmaster", "steam", "playstation", "xbox",
					"nintendo", "arcade", "bowling",
				},
				Weight: 0.7,
			},
		},
		model.CategoryBusiness: {
			{
				Include: []string{
					"fedex", "ups", "staples", "office depot", "linkedin",
					"aws", "github", "google cloud", "zoom", "slack", "godaddy",
					"mailchimp", "quickbooks",
				},
				Weight: 0.65,
			},
		},
		model.CategoryCreditCard: {
			{
				Include: []string{
					"amex", "american express", "capital one", "barclaycard",
					"citibank", "chase epay", "synchrony",
				},
				Weight: 0.7,
			},
		},
		model.CategoryLoanPayment: {
			{
				Include: []string{
					"loan", "lending", "sofi", "navient", "sallie mae",
					"nelnet", "mohela", "mortgage",
				},
				Weight: 0.75,
			},
		},
		model.CategoryRent: {
			{
				Include: []string{
					"rent", "apartment", "property management", "landlord",
					"realty", "leasing",
				},
				Weight: 0.7,
			},
			{
				// Car and equipment rental merchants also contain "rent".
				Exclude: []string{"rental car", "car rental", "rent a car"},
				Weight:  -0.5,
			},
		},
		model.CategoryCarPayment: {
			{
				Include: []string{
					"toyota financial", "honda financial", "gm financial",
					"nissan motor acceptance", "auto loan", "car loan",
					"auto finance",
				},
				Weight: 0.8,
			},
		},
		model.CategoryInsurance: {
			{
				Include: []string{
					"insurance", "geico", "state farm", "allstate",
					"progressive", "aetna", "cigna", "metlife",
				},
				Weight: 0.8,
			},
		},
		model.CategoryInternet: {
			{
				Include: []string{
					"comcast", "xfinity", "internet", "spectrum",
					"centurylink", "frontier", "broadband", "fios",
				},
				Weight: 0.75,
			},
		},
		model.CategoryPhone: {
			{
				Include: []string{
					"verizon", "tmobile", "t mobile", "att", "wireless",
					"mint mobile", "cricket", "boost mobile",
				},
				Weight: 0.7,
			},
		},
		model.CategorySubscriptions: {
			{
				Include: []string{
					"netflix", "spotify", "hulu", "disney plus", "hbo",
					"paramount", "peacock", "youtube premium", "audible",
					"patreon", "substack", "kindle unlimited",
				},
				Weight: 0.75,
			},
		},
	}
}
