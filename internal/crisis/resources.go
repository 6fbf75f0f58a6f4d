package crisis

// Resource is a helpline a person can be pointed to
type Resource struct {
	Name        string `json:"name"`
	Phone       string `json:"phone"`
	Description string `json:"description"`
	Available24 bool   `json:"available24h"`
	Country     string `json:"country"`
}

var resources = []Resource{
	{
		Name:        "National Suicide Prevention Lifeline",
		Phone:       "988",
		Description: "Free, confidential crisis support 24/7",
		Available24: true,
		Country:     "US",
	},
	{
		Name:        "Crisis Text Line",
		Phone:       "Text HOME to 741741",
		Description: "Free crisis counseling via text message",
		Available24: true,
		Country:     "US",
	},
	{
		Name:        "SAMHSA National Helpline",
		Phone:       "1-800-662-4357",
		Description: "Mental health and substance abuse support",
		Available24: true,
		Country:     "US",
	},
	{
		Name:        "International Association for Suicide Prevention",
		Phone:       "Visit iasp.info/resources",
		Description: "Global directory of crisis centers",
		Available24: true,
		Country:     "International",
	},
}

// Resources returns a copy of the crisis directory
func Resources() []Resource {
	out := make([]Resource, len(resources))
	copy(out, resources)
	return out
}

// Names lists resource names with their contact, for log lines
func Names() []string {
	out := make([]string, 0, len(resources))
	for _, r := range resources {
		out = append(out, r.Name+" ("+r.Phone+")")
	}
	return out
}
