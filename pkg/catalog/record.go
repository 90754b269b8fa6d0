package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"
)

// FetchPokemon retrieves one record by identifier and enriches its ability
// and move bundles concurrently. A primary fetch failure propagates as
// *client.UpstreamError; enrichment failures degrade the affected sub-item
// to sentinel values and never fail the record.
func (c *Catalog) FetchPokemon(ctx context.Context, id int) (*Pokemon, error) {
	if id <= 0 {
		return nil, fmt.Errorf("id must be > 0 (got %d)", id)
	}

	cacheKey := fmt.Sprintf("dex:pokemon:%d", id)

	if c.config.Cache != nil {
		if p, ok := c.cachedPokemon(ctx, cacheKey); ok {
			dexRecordFetches.WithLabelValues("cache").Inc()
			return p, nil
		}
	}

	var doc pokemonDoc
	if err := c.client.GetJSON(ctx, fmt.Sprintf("pokemon/%d", id), &doc); err != nil {
		return nil, err
	}

	p := &Pokemon{
		ID:    doc.ID,
		Name:  doc.Name,
		Types: make([]string, 0, len(doc.Types)),
		Stats: make([]Stat, 0, len(doc.Stats)),
	}
	for _, t := range doc.Types {
		p.Types = append(p.Types, t.Type.Name)
	}
	for _, s := range doc.Stats {
		p.Stats = append(p.Stats, Stat{Name: s.Stat.Name, Value: s.BaseStat})
	}

	// Both bundles fan out together; assembly waits for every sub-item to
	// settle so the bundles always carry their full capped counts.
	var wg sync.WaitGroup

	abilityRefs := make([]namedRef, 0, c.config.AbilityLimit)
	for _, a := range doc.Abilities {
		if len(abilityRefs) == c.config.AbilityLimit {
			break
		}
		abilityRefs = append(abilityRefs, a.Ability)
	}
	abilities := make([]AbilityInfo, len(abilityRefs))

	moveRefs := make([]namedRef, 0, c.config.MoveLimit)
	for _, m := range doc.Moves {
		if len(moveRefs) == c.config.MoveLimit {
			break
		}
		moveRefs = append(moveRefs, m.Move)
	}
	moves := make([]MoveInfo, len(moveRefs))

	for i, ref := range abilityRefs {
		wg.Add(1)
		go func(i int, ref namedRef) {
			defer wg.Done()
			abilities[i] = c.fetchAbility(ctx, i, ref)
		}(i, ref)
	}

	for i, ref := range moveRefs {
		wg.Add(1)
		go func(i int, ref namedRef) {
			defer wg.Done()
			moves[i] = c.fetchMove(ctx, i, ref)
		}(i, ref)
	}

	wg.Wait()

	p.Abilities = abilities
	p.Moves = moves

	dexRecordFetches.WithLabelValues("upstream").Inc()

	if c.config.Cache != nil {
		c.storePokemon(ctx, cacheKey, p)
	}

	return p, nil
}

// fetchAbility resolves one bundle-A sub-item. The call is preceded by a
// stagger delay of index * AbilityStagger to spread burst load on the
// dependent endpoint; any failure yields the sentinel description.
func (c *Catalog) fetchAbility(ctx context.Context, index int, ref namedRef) AbilityInfo {
	info := AbilityInfo{Name: ref.Name, Description: DescriptionUnavailable}

	if err := sleepCtx(ctx, time.Duration(index)*c.config.AbilityStagger); err != nil {
		dexSubItemFailures.WithLabelValues("ability").Inc()
		return info
	}

	var doc abilityDoc
	if err := c.client.GetJSON(ctx, ref.URL, &doc); err != nil {
		dexSubItemFailures.WithLabelValues("ability").Inc()
		c.logger.Warn().
			Err(err).
			Str("ability", ref.Name).
			Msg("Ability enrichment failed, using sentinel description")
		return info
	}

	if effect := pickEffect(doc.EffectEntries); effect != "" {
		info.Description = effect
	}

	return info
}

// fetchMove resolves one bundle-B sub-item under a hard per-call deadline.
// The call is preceded by a stagger delay of index * MoveStagger; timeout or
// failure yields the sentinel description, the fallback type, and nil
// numeric fields.
func (c *Catalog) fetchMove(ctx context.Context, index int, ref namedRef) MoveInfo {
	info := MoveInfo{
		Name:        ref.Name,
		Description: DescriptionUnavailable,
		Type:        TypeFallback,
	}

	if err := sleepCtx(ctx, time.Duration(index)*c.config.MoveStagger); err != nil {
		dexSubItemFailures.WithLabelValues("move").Inc()
		return info
	}

	callCtx, cancel := context.WithTimeout(ctx, c.config.MoveTimeout)
	defer cancel()

	var doc moveDoc
	if err := c.client.GetJSON(callCtx, ref.URL, &doc); err != nil {
		dexSubItemFailures.WithLabelValues("move").Inc()
		c.logger.Warn().
			Err(err).
			Str("move", ref.Name).
			Msg("Move enrichment failed, using sentinel values")
		return info
	}

	if effect := pickEffect(doc.EffectEntries); effect != "" {
		info.Description = effect
	}
	if doc.Type.Name != "" {
		info.Type = doc.Type.Name
	}
	info.Power = doc.Power
	info.Accuracy = doc.Accuracy

	return info
}

// cachedPokemon loads a record from the cache. Decode failures are treated
// as misses.
func (c *Catalog) cachedPokemon(ctx context.Context, key string) (*Pokemon, bool) {
	data, err := c.config.Cache.Get(ctx, key)
	if err != nil {
		return nil, false
	}

	var p Pokemon
	if err := json.Unmarshal(data, &p); err != nil {
		c.logger.Warn().Err(err).Str("key", key).Msg("Invalid cached record, refetching")
		_ = c.config.Cache.Delete(ctx, key)
		return nil, false
	}

	c.logger.Debug().Str("key", key).Msg("Record cache hit")
	return &p, true
}

// storePokemon writes a record to the cache, best effort.
func (c *Catalog) storePokemon(ctx context.Context, key string, p *Pokemon) {
	data, err := json.Marshal(p)
	if err != nil {
		c.logger.Warn().Err(err).Str("key", key).Msg("Failed to encode record for cache")
		return
	}

	if err := c.config.Cache.Set(ctx, key, data, c.config.CacheTTL); err != nil {
		c.logger.Warn().Err(err).Str("key", key).Msg("Failed to cache record")
	}
}
