package catalog

// Seed returns a fresh copy of the reference storefront dataset.
func Seed() []Storefront {
	return []Storefront{
		{
			Slug:            "a3-official",
			DisplayName:     "A3! Official Store",
			GameTitle:       "A3! (Act! Addict! Actors!)",
			Logo:            "https://images.ctfassets.net/o8h5c4rqlsvy/1Hms63/015f-logo/a3-logo.png",
			HeroImage:       "https://images.unsplash.com/photo-1469474968028-56623f02e42e?auto=format&fit=crop&w=1600&q=80",
			Tagline:         "Summer Troupe Anniversary",
			HighlightSlogan: "Extra diamonds + App Pay exclusives",
			Summary:         "Official top-up channel operated by Liber Entertainment. Enjoy 20% bonus diamonds, commemorative bundles, and PayPay-ready checkout for fans in Japan.",
			CompanyName:     "Liber Entertainment Inc.",
			ContactEmail:    "support@a3-app.jp",
			SupportChannel:  "Discord & in-app ticket",
			StorefrontURL:   "https://pay.waffo.jp/store/a3-official",
			PrimaryColor:    "#ff6699",
			PaymentMethods:  []PaymentMethod{Visa, Mastercard, JCB, PayPay, ApplePay},
			Features:        []string{"App Pay exclusive", "Webhook under 2s", "Instant PayPay cashback"},

			UserIdentifierLabel: "Game ID",
			UserIdentifierHint:  "Example: A3-7821-9933",

			LegalLinks: []LegalLink{
				{Label: "Legal disclosure", URL: "https://a3.jp/legal/act"},
				{Label: "Payment services act", URL: "https://a3.jp/legal/payment"},
				{Label: "Terms of service", URL: "https://a3.jp/terms"},
				{Label: "Privacy policy", URL: "https://a3.jp/privacy"},
				{Label: "Cancellation & refund", URL: "https://a3.jp/cancel"},
			},
			Products: []Product{
				{
					ID:          "pack-limited-01",
					Name:        "Full Bloom Celebration Pack",
					Category:    "Limited pack",
					Price:       10000,
					Currency:    "JPY",
					BaseAmount:  820,
					BonusAmount: 120,
					Description: "Anniversary art + 820 diamonds with 120 bonus",
					Icon:        "https://images.unsplash.com/photo-1500530855697-b586d89ba3ee?w=400",
					GameItemID:  "A3_PACK_LIMITED",
					Limited:     true,
					Promotion: &Promotion{
						Type:      PromotionBonus,
						Value:     18,
						Copy:      "18% better than in-game",
						Badge:     "Limited",
						Highlight: "App Pay exclusive pack!!",
					},
				},
				{
					ID:          "pack-regular-02",
					Name:        "Diamond 720",
					Category:    "Standard top-up",
					Price:       8000,
					Currency:    "JPY",
					BaseAmount:  720,
					BonusAmount: 60,
					Description: "Regular charge with +60 bonus",
					Icon:        "https://images.unsplash.com/photo-1523978591478-c753949ff840?w=400",
					GameItemID:  "A3_DIA_720",
					Promotion:   &Promotion{Type: PromotionBonus, Value: 9, Copy: "9% bonus"},
				},
				{
					ID:          "pack-mini-03",
					Name:        "Starter Pack",
					Category:    "Special bundle",
					Price:       3000,
					Currency:    "JPY",
					BaseAmount:  250,
					BonusAmount: 30,
					Description: "Beginner items plus 30 bonus diamonds",
					Icon:        "https://images.unsplash.com/photo-1511512578047-dfb367046420?w=400",
					GameItemID:  "A3_STARTER",
					Promotion:   &Promotion{Type: PromotionBonus, Value: 12, Copy: "12% bonus"},
				},
			},
			Filters: Filters{
				CategoryTags:    []string{"App Pay exclusive", "Bonus >10%"},
				MinBonusPercent: 10,
				Exclusive:       true,
			},
		},
		{
			Slug:            "stella-stage",
			DisplayName:     "Stella Stage Exchange",
			GameTitle:       "Stella Stage Online",
			Logo:            "https://images.ctfassets.net/o8h5c4rqlsvy/2Logo/stella-stage.svg",
			HeroImage:       "https://images.unsplash.com/photo-1500534314209-a25ddb2bd429?auto=format&fit=crop&w=1600&q=80",
			Tagline:         "Galaxy Expedition Season 2",
			HighlightSlogan: "Crystals 10% cheaper than in-game",
			Summary:         "Seasonal battle pass, subscription perks, and flexible Line Pay installments for commanders gearing up for the new expedition.",
			CompanyName:     "Stella Interactive Limited",
			ContactEmail:    "ops@stella-stage.com",
			SupportChannel:  "Slack Connect",
			StorefrontURL:   "https://pay.waffo.jp/store/stella-stage",
			PrimaryColor:    "#7c5dff",
			PaymentMethods:  []PaymentMethod{Visa, Mastercard, AMEX, LinePay, Konbini},
			Features:        []string{"Subscription ready", "Automatic webhook retries", "Installment support"},

			UserIdentifierLabel: "Pilot ID",
			UserIdentifierHint:  "ST-8891-XXXX",

			LegalLinks: []LegalLink{
				{Label: "Legal disclosure", URL: "https://stella-stage.com/legal/tokusho"},
				{Label: "Payment services act", URL: "https://stella-stage.com/legal/fund"},
				{Label: "Terms of service", URL: "https://stella-stage.com/terms"},
				{Label: "Privacy policy", URL: "https://stella-stage.com/privacy"},
				{Label: "Cancellation", URL: "https://stella-stage.com/cancel"},
			},
			Products: []Product{
				{
					ID:           "stella-season",
					Name:         "Season Flight Pass",
					Category:     "Limited pack",
					Price:        12000,
					Currency:     "JPY",
					BaseAmount:   1,
					Description:  "12 weeks of elite missions + bonus drops",
					GameItemID:   "ST_PASS_LUX",
					Subscription: true,
					Promotion:    &Promotion{Type: PromotionBonus, Value: 25, Copy: "25% faster progress", Badge: "Season"},
				},
				{
					ID:          "stella-crystal",
					Name:        "Crystal 1500",
					Category:    "Standard top-up",
					Price:       10000,
					Currency:    "JPY",
					BaseAmount:  1500,
					Description: "Large update launch discount",
					GameItemID:  "ST_CRYS_1500",
					Promotion: &Promotion{
						Type:      PromotionDiscount,
						Value:     10,
						Copy:      "10% OFF",
						Highlight: "Cheaper than in-game",
					},
				},
				{
					ID:          "stella-kit",
					Name:        "Mechanic Kit",
					Category:    "Supply",
					Price:       4500,
					Currency:    "JPY",
					BaseAmount:  340,
					BonusAmount: 40,
					Description: "Weekly materials + 40 crystals",
					GameItemID:  "ST_SUPPORT",
				},
			},
			Filters: Filters{
				CategoryTags:    []string{"App Pay exclusive", "Subscription"},
				MinBonusPercent: 5,
			},
		},
		{
			Slug:            "mirage-saga",
			DisplayName:     "Mirage Saga Lab",
			GameTitle:       "Mirage Saga Reversal",
			Logo:            "https://images.ctfassets.net/o8h5c4rqlsvy/3Logo/mirage.svg",
			HeroImage:       "https://images.unsplash.com/photo-1500530855697-b586d89ba3ee?auto=format&fit=crop&w=1600&q=80",
			Tagline:         "Deep Realm Update",
			HighlightSlogan: "App Pay limited gear bundles",
			Summary:         "Optimized for local wallets in Japan: 99.99% of orders ship within 3 seconds post-payment with resilient webhook retries.",
			CompanyName:     "Mirage Digital GK",
			ContactEmail:    "merchant@mirage.io",
			SupportChannel:  "Email + PagerDuty",
			StorefrontURL:   "https://pay.waffo.jp/store/mirage-saga",
			PrimaryColor:    "#11b0a5",
			PaymentMethods:  []PaymentMethod{Visa, Mastercard, PayPay, GooglePay, Konbini},
			Features:        []string{"5x webhook retries", "PayPay accepted", "15% better than game"},

			UserIdentifierLabel: "User Code",
			UserIdentifierHint:  "MG-XXXX-00",

			LegalLinks: []LegalLink{
				{Label: "Legal disclosure", URL: "https://mirage.io/tokusho"},
				{Label: "Payment services act", URL: "https://mirage.io/fund"},
				{Label: "Terms of service", URL: "https://mirage.io/terms"},
				{Label: "Privacy policy", URL: "https://mirage.io/privacy"},
				{Label: "Return policy", URL: "https://mirage.io/cancel"},
			},
			Products: []Product{
				{
					ID:          "mirage-bundle-top",
					Name:        "Deep Gear Advance",
					Category:    "Limited pack",
					Price:       14000,
					Currency:    "JPY",
					BaseAmount:  1600,
					BonusAmount: 300,
					GameItemID:  "MG_ADV_PACK",
					Description: "Gear upgrade mats + 15% crystal boost",
					Promotion: &Promotion{
						Type:      PromotionBonus,
						Value:     15,
						Copy:      "15% bonus",
						Highlight: "Eligible for PayPay cashback",
					},
				},
				{
					ID:           "mirage-monthly",
					Name:         "Monthly Supply Plan",
					Category:     "Subscription",
					Price:        3200,
					Currency:     "JPY",
					BaseAmount:   1,
					Subscription: true,
					Description:  "30-day plan with +60 crystals per day",
					GameItemID:   "MG_MONTHLY",
				},
				{
					ID:          "mirage-core",
					Name:        "Core Charge 980",
					Category:    "Standard top-up",
					Price:       9800,
					Currency:    "JPY",
					BaseAmount:  980,
					BonusAmount: 80,
					Description: "8% more crystals via App Pay",
					GameItemID:  "MG_CORE_980",
					Promotion:   &Promotion{Type: PromotionBonus, Value: 8, Copy: "8% bonus"},
				},
			},
			Filters: Filters{
				CategoryTags:    []string{"PayPay supported", "Webhook 99.99"},
				MinBonusPercent: 8,
			},
		},
	}
}
