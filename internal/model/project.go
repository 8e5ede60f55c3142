package model

import "time"

// Project owns a set of texts and the tag vocabulary they may use.
type Project struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Tags       []string  `json:"tags"`
	ModelState string    `json:"model_state"`
	CreatedAt  time.Time `json:"created_at"`
}

// AllowsTags reports whether every tag is part of the project's vocabulary.
func (p *Project) AllowsTags(tags []string) bool {
	allowed := make(map[string]struct{}, len(p.Tags))
	for _, t := range p.Tags {
		allowed[t] = struct{}{}
	}
	for _, t := range tags {
		if _, ok := allowed[t]; !ok {
			return false
		}
	}
	return true
}
