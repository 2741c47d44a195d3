package model

// RestCountry is one element of the REST Countries /alpha/{code} array.
type RestCountry struct {
	CCA2 string `json:"cca2"`
	Name struct {
		Common   string `json:"common"`
		Official string `json:"official"`
	} `json:"name"`
	Flags struct {
		PNG string `json:"png"`
		SVG string `json:"svg"`
		Alt string `json:"alt"`
	} `json:"flags"`
}

// Country converts the payload, preferring the PNG flag.
func (c RestCountry) Country(code string) *Country {
	flag := c.Flags.PNG
	if flag == "" {
		flag = c.Flags.SVG
	}
	if c.CCA2 != "" {
		code = c.CCA2
	}
	return &Country{Code: code, Name: c.Name.Common, FlagURL: flag}
}
