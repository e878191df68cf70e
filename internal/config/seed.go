package config

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"seatreserve/internal/domain/models"
)

// SeedRoute is a route together with its ordered stops.
type SeedRoute struct {
	models.Route `yaml:",inline"`
	Stops        []models.RouteStop `yaml:"stops" validate:"required,min=1,dive"`
}

// Seed is the fixture file loaded at startup.
type Seed struct {
	BusModels []models.BusModel `yaml:"bus_models" validate:"dive"`
	Buses     []models.Bus      `yaml:"buses" validate:"dive"`
	Stops     []models.Stop     `yaml:"stops" validate:"dive"`
	Routes    []SeedRoute       `yaml:"routes" validate:"dive"`
	Trips     []models.Trip     `yaml:"trips" validate:"dive"`
}

// LoadSeed reads and validates a YAML seed file.
func LoadSeed(path string) (Seed, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Seed{}, err
	}
	return ParseSeed(data)
}

// ParseSeed decodes and validates a seed. An explicit id may appear only once
// per table; zero ids are assigned by the store.
func ParseSeed(data []byte) (Seed, error) {
	var seed Seed
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return Seed{}, fmt.Errorf("parse seed: %w", err)
	}
	if err := validator.New().Struct(seed); err != nil {
		return Seed{}, fmt.Errorf("invalid seed: %w", err)
	}
	if err := seed.checkIDs(); err != nil {
		return Seed{}, fmt.Errorf("invalid seed: %w", err)
	}
	return seed, nil
}

func (s Seed) checkIDs() error {
	if err := uniqueIDs("bus_models", s.BusModels, func(m models.BusModel) int64 { return int64(m.ID) }); err != nil {
		return err
	}
	if err := uniqueIDs("buses", s.Buses, func(b models.Bus) int64 { return int64(b.ID) }); err != nil {
		return err
	}
	if err := uniqueIDs("stops", s.Stops, func(st models.Stop) int64 { return int64(st.ID) }); err != nil {
		return err
	}
	if err := uniqueIDs("routes", s.Routes, func(r SeedRoute) int64 { return int64(r.ID) }); err != nil {
		return err
	}
	return uniqueIDs("trips", s.Trips, func(t models.Trip) int64 { return int64(t.ID) })
}

func uniqueIDs[T any](table string, items []T, id func(T) int64) error {
	seen := make(map[int64]int, len(items))
	for i, item := range items {
		v := id(item)
		if v == 0 {
			continue
		}
		if first, ok := seen[v]; ok {
			return fmt.Errorf("%s[%d]: id %d already used by %s[%d]", table, i, v, table, first)
		}
		seen[v] = i
	}
	return nil
}
