// Package seed loads budget catalogs and participants from YAML files.
package seed

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"civicbudget/internal/logger"
	"civicbudget/internal/models"
	"civicbudget/internal/phase"
	"civicbudget/internal/services"
	customvalidator "civicbudget/internal/validator"
)

// File is the root of a seed document.
type File struct {
	Users   []User   `yaml:"users" validate:"dive"`
	Budgets []Budget `yaml:"budgets" validate:"dive"`
}

// User is a participant to register.
type User struct {
	Username      string `yaml:"username" validate:"required,max=64"`
	OfficialLevel int    `yaml:"official_level,omitempty" validate:"gte=0,lte=5"`
}

// Budget describes one budget and its hierarchy.
type Budget struct {
	Name           string       `yaml:"name" validate:"required"`
	Slug           string       `yaml:"slug" validate:"required,slug"`
	Phase          phase.Kind   `yaml:"phase" validate:"required,phase_kind"`
	ResultsEnabled bool         `yaml:"results_enabled,omitempty"`
	HideMoney      bool         `yaml:"hide_money,omitempty"`
	Phases         []PhaseEntry `yaml:"phases,omitempty" validate:"dive"`
	Groups         []Group      `yaml:"groups" validate:"required,min=1,dive"`
}

// PhaseEntry overrides the defaults of one phase record. Phases not listed
// are enabled with no dates.
type PhaseEntry struct {
	Kind     phase.Kind `yaml:"kind" validate:"required,phase_kind"`
	Enabled  *bool      `yaml:"enabled,omitempty"`
	StartsAt *time.Time `yaml:"starts_at,omitempty"`
	EndsAt   *time.Time `yaml:"ends_at,omitempty"`
}

// Group is a group of headings.
type Group struct {
	Name     string    `yaml:"name" validate:"required"`
	Slug     string    `yaml:"slug" validate:"required,slug"`
	Headings []Heading `yaml:"headings" validate:"required,min=1,dive"`
}

// Heading is a spending area with its allocation ceiling.
type Heading struct {
	Name      string   `yaml:"name" validate:"required"`
	Slug      string   `yaml:"slug" validate:"required,slug"`
	Price     int64    `yaml:"price" validate:"gte=0"`
	Latitude  *float64 `yaml:"latitude,omitempty" validate:"omitempty,latitude"`
	Longitude *float64 `yaml:"longitude,omitempty" validate:"omitempty,longitude"`
}

// Result counts what Apply wrote.
type Result struct {
	Users    int
	Budgets  int
	Groups   int
	Headings int
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	customvalidator.RegisterOn(v)
	return v
}

// Parse decodes and validates a seed document.
func Parse(data []byte) (*File, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, errors.New("seed: document is empty")
	}
	var f File
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("seed: decode: %w", err)
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return &f, nil
}

// Load reads and parses the seed file at path.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("seed: read %s: %w", path, err)
	}
	f, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("seed: %s: %w", path, err)
	}
	return f, nil
}

// Validate checks field rules and slug uniqueness within each level.
func (f *File) Validate() error {
	if err := validate.Struct(f); err != nil {
		return fmt.Errorf("seed: invalid document: %w", err)
	}

	budgets := make(map[string]bool)
	for _, b := range f.Budgets {
		if budgets[b.Slug] {
			return fmt.Errorf("seed: duplicate budget slug %q", b.Slug)
		}
		budgets[b.Slug] = true

		groups := make(map[string]bool)
		headings := make(map[string]bool)
		for _, g := range b.Groups {
			if groups[g.Slug] {
				return fmt.Errorf("seed: budget %q: duplicate group slug %q", b.Slug, g.Slug)
			}
			groups[g.Slug] = true
			for _, h := range g.Headings {
				if headings[h.Slug] {
					return fmt.Errorf("seed: budget %q: duplicate heading slug %q", b.Slug, h.Slug)
				}
				headings[h.Slug] = true
			}
		}
	}
	return nil
}

// Marshal encodes f as YAML.
func (f *File) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(f); err != nil {
		return nil, fmt.Errorf("seed: encode: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("seed: encode: %w", err)
	}
	return buf.Bytes(), nil
}

// Apply writes f to db. Users are upserted by username; budgets, groups and
// headings are matched by slug and updated in place, so applying the same
// file twice is a no-op.
func Apply(db *gorm.DB, users services.UserServicer, f *File) (Result, error) {
	var res Result
	for _, u := range f.Users {
		if _, err := users.UpsertUser(u.Username, u.OfficialLevel); err != nil {
			return res, fmt.Errorf("seed: user %q: %w", u.Username, err)
		}
		res.Users++
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		for _, b := range f.Budgets {
			budget, err := upsertBudget(tx, b)
			if err != nil {
				return fmt.Errorf("seed: budget %q: %w", b.Slug, err)
			}
			res.Budgets++

			for _, g := range b.Groups {
				group, err := upsertGroup(tx, budget.ID, g)
				if err != nil {
					return fmt.Errorf("seed: group %q: %w", g.Slug, err)
				}
				res.Groups++

				for _, h := range g.Headings {
					if err := upsertHeading(tx, budget.ID, group.ID, h); err != nil {
						return fmt.Errorf("seed: heading %q: %w", h.Slug, err)
					}
					res.Headings++
				}
			}
		}
		return nil
	})
	if err != nil {
		return Result{}, err
	}

	logger.Get().Infow("seed applied",
		"users", res.Users,
		"budgets", res.Budgets,
		"groups", res.Groups,
		"headings", res.Headings,
	)
	return res, nil
}

func upsertBudget(tx *gorm.DB, b Budget) (*models.Budget, error) {
	var budget models.Budget
	err := tx.Where("slug = ?", b.Slug).First(&budget).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		budget = models.Budget{
			Name:           b.Name,
			Slug:           b.Slug,
			Phase:          b.Phase,
			ResultsEnabled: b.ResultsEnabled,
			HideMoney:      b.HideMoney,
		}
		if err := tx.Create(&budget).Error; err != nil {
			return nil, err
		}
	case err != nil:
		return nil, err
	default:
		if err := tx.Model(&budget).Updates(map[string]interface{}{
			"name":            b.Name,
			"phase":           b.Phase,
			"results_enabled": b.ResultsEnabled,
			"hide_money":      b.HideMoney,
		}).Error; err != nil {
			return nil, err
		}
	}

	overrides := make(map[phase.Kind]PhaseEntry, len(b.Phases))
	for _, p := range b.Phases {
		overrides[p.Kind] = p
	}
	for _, kind := range phase.Sequence {
		record := models.BudgetPhase{BudgetID: budget.ID, Kind: kind, Enabled: true}
		if p, ok := overrides[kind]; ok {
			if p.Enabled != nil {
				record.Enabled = *p.Enabled
			}
			record.StartsAt = p.StartsAt
			record.EndsAt = p.EndsAt
		}
		err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "budget_id"}, {Name: "kind"}},
			DoUpdates: clause.AssignmentColumns([]string{"enabled", "starts_at", "ends_at"}),
		}).Create(&record).Error
		if err != nil {
			return nil, err
		}
	}
	return &budget, nil
}

func upsertGroup(tx *gorm.DB, budgetID uint, g Group) (*models.Group, error) {
	var group models.Group
	err := tx.Where("budget_id = ? AND slug = ?", budgetID, g.Slug).First(&group).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		group = models.Group{BudgetID: budgetID, Name: g.Name, Slug: g.Slug}
		return &group, tx.Create(&group).Error
	case err != nil:
		return nil, err
	}
	return &group, tx.Model(&group).Update("name", g.Name).Error
}

func upsertHeading(tx *gorm.DB, budgetID, groupID uint, h Heading) error {
	var heading models.Heading
	err := tx.Where("group_id IN (?) AND slug = ?",
		tx.Model(&models.Group{}).Select("id").Where("budget_id = ?", budgetID), h.Slug).
		First(&heading).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		heading = models.Heading{
			GroupID:   groupID,
			Name:      h.Name,
			Slug:      h.Slug,
			Price:     h.Price,
			Latitude:  h.Latitude,
			Longitude: h.Longitude,
		}
		return tx.Create(&heading).Error
	case err != nil:
		return err
	}
	return tx.Model(&heading).Updates(map[string]interface{}{
		"group_id":  groupID,
		"name":      h.Name,
		"price":     h.Price,
		"latitude":  h.Latitude,
		"longitude": h.Longitude,
	}).Error
}
