package core

import (
	"time"

	"github.com/google/uuid"
)

// TenantID and UserID are plain UUID aliases. original_source's Rust
// implementation wraps these in newtype structs (TenantId(Uuid),
// UserId(Uuid)) for compile-time scope separation; Go's structural typing
// and the teacher's own models (bare uuid.UUID fields throughout) make that
// wrapper a poor fit here, so tenant/user scope is enforced by always
// threading them as the first two parameters of every core operation instead
// of by the type system. See DESIGN.md.
type TenantID = uuid.UUID
type UserID = uuid.UUID

// BatchStatus is the lifecycle state of a Batch.
type BatchStatus string

const (
	BatchActive    BatchStatus = "active"
	BatchExhausted BatchStatus = "exhausted"
	BatchArchived  BatchStatus = "archived"
)

// Batch is a concrete delivery of one catalog ingredient (spec §3).
type Batch struct {
	ID                 uuid.UUID
	TenantID           TenantID
	CatalogIngredientID uuid.UUID
	PricePerUnit       Money
	OriginalQuantity   Quantity
	RemainingQuantity  Quantity
	Supplier           *string
	Invoice            *string
	Status             BatchStatus
	ReceivedAt         time.Time
	ExpiresAt          *time.Time
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// MovementKind classifies an append-only audit record (spec §3).
type MovementKind string

const (
	MovementIn        MovementKind = "IN"
	MovementOutSale   MovementKind = "OUT_SALE"
	MovementOutExpire MovementKind = "OUT_EXPIRE"
	MovementAdjustment MovementKind = "ADJUSTMENT"
)

// Movement is an immutable stock-change record tied to exactly one batch.
type Movement struct {
	ID            uuid.UUID
	TenantID      TenantID
	BatchID       uuid.UUID
	Kind          MovementKind
	Quantity      Quantity
	UnitCost      Money
	TotalCost     Money
	ReferenceID   *string
	ReferenceType *string
	Reason        *string
	Notes         *string
	CreatedAt     time.Time
}

// MovementLine is a single FIFO allocation returned from a deduction,
// matching the external interface table's `[MovementLine]` output of `deduct`.
type MovementLine struct {
	BatchID   uuid.UUID
	Quantity  Quantity
	UnitCost  Money
	TotalCost Money
}

// UnitType enumerates the catalog's unit vocabulary, including the
// transliterated Russian/Ukrainian aliases original_source/shared/types.rs
// accepts at the parsing boundary (the platform serves several languages).
type UnitType string

const (
	UnitGram      UnitType = "gram"
	UnitKilogram  UnitType = "kilogram"
	UnitLiter     UnitType = "liter"
	UnitMilliliter UnitType = "milliliter"
	UnitPiece     UnitType = "piece"
	UnitBunch     UnitType = "bunch"
	UnitCan       UnitType = "can"
	UnitBottle    UnitType = "bottle"
	UnitPackage   UnitType = "package"
)

var unitAliases = map[string]UnitType{
	"gram": UnitGram, "g": UnitGram, "grams": UnitGram,
	"kilogram": UnitKilogram, "kg": UnitKilogram, "kilograms": UnitKilogram,
	"liter": UnitLiter, "l": UnitLiter, "liters": UnitLiter,
	"milliliter": UnitMilliliter, "ml": UnitMilliliter,
	"piece": UnitPiece, "pcs": UnitPiece, "шт": UnitPiece, "штука": UnitPiece, "штук": UnitPiece,
	"bunch": UnitBunch, "пучок": UnitBunch,
	"can": UnitCan, "банка": UnitCan,
	"bottle": UnitBottle, "бутылка": UnitBottle,
	"package": UnitPackage, "упаковка": UnitPackage,
}

// ParseUnitType resolves a unit string, accepting English names and the
// transliterated Russian/Ukrainian aliases the original catalog UI allowed.
func ParseUnitType(s string) (UnitType, error) {
	if u, ok := unitAliases[s]; ok {
		return u, nil
	}
	return "", NewValidationError("unrecognized unit: " + s)
}

// CatalogIngredient is the shared, tenant-independent product definition
// (spec §3); per-tenant minimum-stock overrides live separately (see
// TenantIngredientOverride) so the catalog stays shared across tenants while
// each tenant's alerting threshold can diverge.
type CatalogIngredient struct {
	ID                   uuid.UUID
	Names                map[string]string // language code -> localized name
	DefaultUnit          UnitType
	DefaultShelfLifeDays *int
	Allergens            []string
	Seasons              []string
	MinStockThreshold    Quantity
	IsActive             bool
}

// TenantIngredientOverride supplements spec §3's aside "(per tenant override
// out of scope of core)" — the override row itself is in scope because the
// Alert aggregator (C5) must read it; the CRUD surface managing it is not.
type TenantIngredientOverride struct {
	TenantID            TenantID
	CatalogIngredientID uuid.UUID
	MinStockThreshold   Quantity
}

// RecipeStatus tracks the lifecycle spec §3 names but does not detail;
// grounded on original_source/src/domain/recipe.rs's update methods.
type RecipeStatus string

const (
	RecipeDraft     RecipeStatus = "draft"
	RecipePublished RecipeStatus = "published"
	RecipeArchived  RecipeStatus = "archived"
)

// CanTransitionTo reports whether moving from from to to is a valid
// one-way lifecycle step (no reverse transitions).
func (s RecipeStatus) CanTransitionTo(to RecipeStatus) bool {
	switch s {
	case RecipeDraft:
		return to == RecipePublished
	case RecipePublished:
		return to == RecipeArchived
	default:
		return false
	}
}

// RecipeIngredient is one line of a recipe's ingredient list.
type RecipeIngredient struct {
	CatalogIngredientID uuid.UUID
	Quantity            Quantity
}

// Recipe is a formula for preparing a dish (spec §3).
type Recipe struct {
	ID           uuid.UUID
	TenantID     TenantID
	UserID       UserID
	Name         string
	Servings     uint32
	Ingredients  []RecipeIngredient
	Status       RecipeStatus
	DefaultLang  string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Dish is a sellable menu item pointing at a recipe (spec §3).
type Dish struct {
	ID           uuid.UUID
	TenantID     TenantID
	RecipeID     uuid.UUID
	Name         string
	Description  *string
	SellingPrice Money
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// DishSale is an append-only sale event (spec §3).
type DishSale struct {
	ID           uuid.UUID
	TenantID     TenantID
	DishID       uuid.UUID
	UserID       UserID
	Quantity     int
	SellingPrice Money
	RecipeCost   Money
	Profit       Money
	SoldAt       time.Time
}

// AlertKind distinguishes the two alert families the aggregator produces.
type AlertKind string

const (
	AlertExpiringBatch AlertKind = "expiring_batch"
	AlertLowStock      AlertKind = "low_stock"
)

// Severity is the ordered label used for alert sorting and badging.
type Severity int

const (
	SeverityOk Severity = iota
	SeverityInfo
	SeverityWarning
	SeverityCritical
	SeverityExpired
	SeverityNoExpiration
)

// Rank orders severities for "minimum rank wins" aggregation; lower is more
// severe (Expired is the most urgent).
func (s Severity) Rank() int {
	switch s {
	case SeverityExpired:
		return 0
	case SeverityCritical:
		return 1
	case SeverityWarning:
		return 2
	case SeverityInfo:
		return 3
	case SeverityOk, SeverityNoExpiration:
		return 4
	default:
		return 5
	}
}

func (s Severity) String() string {
	switch s {
	case SeverityExpired:
		return "expired"
	case SeverityCritical:
		return "critical"
	case SeverityWarning:
		return "warning"
	case SeverityInfo:
		return "info"
	case SeverityNoExpiration:
		return "no_expiration"
	default:
		return "ok"
	}
}

// Alert is a derived (never stored) inventory warning.
type Alert struct {
	Kind          AlertKind
	Severity      Severity
	IngredientRef uuid.UUID
	CurrentValue  Quantity
	Threshold     *Quantity
	Message       string
}
