package catalog

// EntrySummary is one entry of a list page: a name plus the reference URL
// its identifier is derived from.
type EntrySummary struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// Page is one page of the catalog listing.
type Page struct {
	Count   int            `json:"count"`
	Results []EntrySummary `json:"results"`
}

// Stat is a named numeric attribute of a record.
type Stat struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}

// AbilityInfo is an enriched bundle-A sub-item: the ability name plus a
// description resolved from its own endpoint, or DescriptionUnavailable.
type AbilityInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// MoveInfo is an enriched bundle-B sub-item. Power and Accuracy are nil
// when the upstream omits them or the enrichment fetch failed.
type MoveInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Power       *int   `json:"power"`
	Accuracy    *int   `json:"accuracy"`
	Type        string `json:"type"`
}

// Pokemon is a fully enriched catalog record. Enrichment failures degrade
// individual abilities or moves to sentinel values; they never remove
// sub-items or fail the record.
type Pokemon struct {
	ID        int           `json:"id"`
	Name      string        `json:"name"`
	Types     []string      `json:"types"`
	Stats     []Stat        `json:"stats"`
	Abilities []AbilityInfo `json:"abilities"`
	Moves     []MoveInfo    `json:"moves"`
}

// namedRef is a name/url pair as it appears in nested reference lists.
type namedRef struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// pokemonDoc is the upstream detail document.
type pokemonDoc struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Types []struct {
		Type namedRef `json:"type"`
	} `json:"types"`
	Stats []struct {
		BaseStat int      `json:"base_stat"`
		Stat     namedRef `json:"stat"`
	} `json:"stats"`
	Abilities []struct {
		Ability namedRef `json:"ability"`
	} `json:"abilities"`
	Moves []struct {
		Move namedRef `json:"move"`
	} `json:"moves"`
}

// effectEntry is one localized effect text of an ability or move document.
type effectEntry struct {
	Effect      string   `json:"effect"`
	ShortEffect string   `json:"short_effect"`
	Language    namedRef `json:"language"`
}

// abilityDoc is the upstream ability document, reduced to what we consume.
type abilityDoc struct {
	EffectEntries []effectEntry `json:"effect_entries"`
}

// moveDoc is the upstream move document, reduced to what we consume.
type moveDoc struct {
	Power         *int          `json:"power"`
	Accuracy      *int          `json:"accuracy"`
	PP            *int          `json:"pp"`
	Type          namedRef      `json:"type"`
	EffectEntries []effectEntry `json:"effect_entries"`
}

// pickEffect returns the English effect text of entries, preferring the
// short form. Returns "" when no usable entry exists.
func pickEffect(entries []effectEntry) string {
	for _, e := range entries {
		if e.Language.Name != "en" {
			continue
		}
		if e.ShortEffect != "" {
			return e.ShortEffect
		}
		if e.Effect != "" {
			return e.Effect
		}
	}
	return ""
}
