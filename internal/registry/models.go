package registry

import "strings"

// Wire format of the Enhetsregisteret JSON API.

type searchPage struct {
	Embedded struct {
		Units []unit `json:"enheter"`
	} `json:"_embedded"`
}

type unit struct {
	OrgNumber       string   `json:"organisasjonsnummer"`
	Name            string   `json:"navn"`
	BusinessAddress *address `json:"forretningsadresse"`
	PostalAddress   *address `json:"postadresse"`
}

type address struct {
	Lines      []string `json:"adresse"`
	PostalCode string   `json:"postnummer"`
	City       string   `json:"poststed"`
}

func (u unit) candidate() Candidate {
	c := Candidate{Name: u.Name, OrgNumber: u.OrgNumber}
	addr := u.BusinessAddress
	if addr == nil {
		addr = u.PostalAddress
	}
	if addr != nil {
		lines := make([]string, 0, len(addr.Lines))
		for _, l := range addr.Lines {
			if l = strings.TrimSpace(l); l != "" {
				lines = append(lines, l)
			}
		}
		c.Address = strings.Join(lines, ", ")
		c.PostalCode = addr.PostalCode
		c.City = addr.City
	}
	return c
}
