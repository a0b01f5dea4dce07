package main

import "github.com/ogurasousui/prospector/internal/core/ingest"

func ptr(s string) *string {
	return &s
}

// sampleCompanies は動作確認用のサンプル企業です。
func sampleCompanies() []*ingest.CompanyRow {
	return []*ingest.CompanyRow{
		{
			Domain:        "stripe.com",
			Name:          ptr("Stripe"),
			WebsiteURL:    ptr("https://stripe.com"),
			Country:       ptr("US"),
			Industry:      ptr("Financial Software"),
			EmployeeRange: ptr("5001-10000"),
			TechTags:      []string{"Ruby", "Go", "AWS"},
			Vertical:      ptr("payments"),
			Subvertical:   ptr("payment-infrastructure"),
			Description:   ptr("Online payment processing platform for internet businesses."),
			Location:      ptr("San Francisco, CA"),
		},
		{
			Domain:        "shopify.com",
			Name:          ptr("Shopify"),
			WebsiteURL:    ptr("https://shopify.com"),
			Country:       ptr("CA"),
			Industry:      ptr("E-commerce Software"),
			EmployeeRange: ptr("10001+"),
			TechTags:      []string{"Ruby", "React", "GCP"},
			Vertical:      ptr("ecommerce"),
			Subvertical:   ptr("storefront-platform"),
			Description:   ptr("Commerce platform for online stores and retail point-of-sale."),
			Location:      ptr("Ottawa, ON"),
		},
		{
			Domain:        "hubspot.com",
			Name:          ptr("HubSpot"),
			WebsiteURL:    ptr("https://hubspot.com"),
			Country:       ptr("US"),
			Industry:      ptr("Marketing Software"),
			EmployeeRange: ptr("5001-10000"),
			TechTags:      []string{"Java", "React", "AWS"},
			Vertical:      ptr("martech"),
			Subvertical:   ptr("crm"),
			Description:   ptr("CRM platform with marketing, sales, and customer service tools."),
			Location:      ptr("Cambridge, MA"),
		},
		{
			Domain:        "datadog.com",
			Name:          ptr("Datadog"),
			WebsiteURL:    ptr("https://datadog.com"),
			Country:       ptr("US"),
			Industry:      ptr("Infrastructure Software"),
			EmployeeRange: ptr("1001-5000"),
			TechTags:      []string{"Go", "Python", "Kafka"},
			Vertical:      ptr("devtools"),
			Subvertical:   ptr("observability"),
			Description:   ptr("Monitoring and analytics platform for cloud applications."),
			Location:      ptr("New York, NY"),
		},
		{
			Domain:        "figma.com",
			Name:          ptr("Figma"),
			WebsiteURL:    ptr("https://figma.com"),
			Country:       ptr("US"),
			Industry:      ptr("Design Software"),
			EmployeeRange: ptr("1001-5000"),
			TechTags:      []string{"TypeScript", "C++", "WebGL"},
			Vertical:      ptr("design"),
			Subvertical:   ptr("collaborative-design"),
			Description:   ptr("Collaborative interface design tool that runs in the browser."),
			Location:      ptr("San Francisco, CA"),
		},
		{
			Domain:        "gitlab.com",
			Name:          ptr("GitLab"),
			WebsiteURL:    ptr("https://gitlab.com"),
			Country:       ptr("US"),
			Industry:      ptr("Developer Tools"),
			EmployeeRange: ptr("1001-5000"),
			TechTags:      []string{"Ruby", "Go", "Kubernetes"},
			Vertical:      ptr("devtools"),
			Subvertical:   ptr("devops-platform"),
			Description:   ptr("DevSecOps platform covering the entire software delivery lifecycle."),
			Location:      ptr("Remote"),
		},
		{
			Domain:        "klaviyo.com",
			Name:          ptr("Klaviyo"),
			WebsiteURL:    ptr("https://klaviyo.com"),
			Country:       ptr("US"),
			Industry:      ptr("Marketing Software"),
			EmployeeRange: ptr("1001-5000"),
			TechTags:      []string{"Python", "Django", "AWS"},
			Vertical:      ptr("martech"),
			Subvertical:   ptr("email-automation"),
			Description:   ptr("Marketing automation platform for email and SMS campaigns."),
			Location:      ptr("Boston, MA"),
		},
		{
			Domain:        "plaid.com",
			Name:          ptr("Plaid"),
			WebsiteURL:    ptr("https://plaid.com"),
			Country:       ptr("US"),
			Industry:      ptr("Financial Software"),
			EmployeeRange: ptr("1001-5000"),
			TechTags:      []string{"Go", "TypeScript", "AWS"},
			Vertical:      ptr("payments"),
			Subvertical:   ptr("banking-api"),
			Description:   ptr("API network that connects applications to users' bank accounts."),
			Location:      ptr("San Francisco, CA"),
		},
		{
			Domain:        "algolia.com",
			Name:          ptr("Algolia"),
			WebsiteURL:    ptr("https://algolia.com"),
			Country:       ptr("FR"),
			Industry:      ptr("Search Software"),
			EmployeeRange: ptr("501-1000"),
			TechTags:      []string{"C++", "Go", "React"},
			Vertical:      ptr("devtools"),
			Subvertical:   ptr("search-api"),
			Description:   ptr("Hosted search API for building fast search experiences."),
			Location:      ptr("Paris"),
		},
		{
			Domain:        "contentful.com",
			Name:          ptr("Contentful"),
			WebsiteURL:    ptr("https://contentful.com"),
			Country:       ptr("DE"),
			Industry:      ptr("Content Management"),
			EmployeeRange: ptr("501-1000"),
			TechTags:      []string{"JavaScript", "Node.js", "AWS"},
			Vertical:      ptr("martech"),
			Subvertical:   ptr("headless-cms"),
			Description:   ptr("API-first content platform for digital products."),
			Location:      ptr("Berlin"),
		},
	}
}

// sampleMetricsCSV は直近月のサンプル指標です。
const sampleMetricsCSV = `domain,country,month,visits,pages_per_visit,avg_visit_secs,bounce_rate,page_views
stripe.com,WW,2024-07,14500000,4.2,210.5,0.38,60900000
shopify.com,WW,2024-07,52300000,5.1,305.2,0.31,266730000
hubspot.com,WW,2024-07,28100000,3.8,190.7,0.42,106780000
datadog.com,WW,2024-07,6200000,4.5,260.1,0.35,27900000
figma.com,WW,2024-07,81000000,6.3,420.9,0.27,510300000
gitlab.com,WW,2024-07,21400000,4.0,245.3,0.36,85600000
klaviyo.com,WW,2024-07,8900000,3.6,175.4,0.44,32040000
plaid.com,WW,2024-07,3100000,2.9,140.2,0.51,8990000
algolia.com,WW,2024-07,1800000,3.2,155.8,0.47,5760000
contentful.com,WW,2024-07,2400000,3.4,165.0,0.45,8160000
`
