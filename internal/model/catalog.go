package model

import "encoding/json"

// Catalog is the full set of investor portfolios, loaded once per session
// and treated as read-only thereafter.
type Catalog struct {
	Portfolios []Portfolio `json:"portfolios"`
}

// Portfolio is one investor and its deals. Investor names are assumed
// unique within a catalog but uniqueness is not enforced.
type Portfolio struct {
	Investor     string `json:"Investor"`
	PortfolioURL string `json:"Investor_portfolio_url,omitempty"`
	Deals        []Deal `json:"Deals"`
}

// Deal is a single investment record. Every field beyond the company name
// is optional in the source data; absent values degrade to placeholders
// downstream, they never fail a load.
type Deal struct {
	TargetCompanyName   string     `json:"target_company_name"`
	TargetSectors       []string   `json:"target_sectors,omitempty"`
	TargetLocation      string     `json:"target_location,omitempty"`
	TargetCountry       StringList `json:"target_country,omitempty"`
	BusinessDescription string     `json:"target_business_description,omitempty"`
	InvestmentDate      string     `json:"investment_date,omitempty"`
	InvestmentType      string     `json:"investment_type,omitempty"`
	InvestmentAmount    string     `json:"investment_amount,omitempty"`
	Turnover            string     `json:"target_turnover,omitempty"`
	EmployeeCount       string     `json:"target_employee_no,omitempty"`
	DealURL             string     `json:"deal_url,omitempty"`
}

// StringList tolerates both a JSON string and an array of strings. The
// scraped dataset uses either form for target_country.
type StringList []string

func (s *StringList) UnmarshalJSON(data []byte) error {
	var one string
	if err := json.Unmarshal(data, &one); err == nil {
		*s = StringList{one}
		return nil
	}
	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		return err
	}
	*s = StringList(many)
	return nil
}

// FindPortfolio returns the first portfolio whose investor name matches,
// or nil if none does.
func (c *Catalog) FindPortfolio(investor string) *Portfolio {
	for i := range c.Portfolios {
		if c.Portfolios[i].Investor == investor {
			return &c.Portfolios[i]
		}
	}
	return nil
}

// Investors returns the investor names in catalog order.
func (c *Catalog) Investors() []string {
	names := make([]string, len(c.Portfolios))
	for i, p := range c.Portfolios {
		names[i] = p.Investor
	}
	return names
}

// FindDeal returns the first deal in this portfolio whose target company
// name matches, or nil if none does.
func (p *Portfolio) FindDeal(company string) *Deal {
	for i := range p.Deals {
		if p.Deals[i].TargetCompanyName == company {
			return &p.Deals[i]
		}
	}
	return nil
}
