package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BookInstanceStatus string

const (
	BookInstanceStatusAvailable   BookInstanceStatus = "Available"
	BookInstanceStatusMaintenance BookInstanceStatus = "Maintenance"
	BookInstanceStatusLoaned      BookInstanceStatus = "Loaned"
	BookInstanceStatusReserved    BookInstanceStatus = "Reserved"
)

// BookInstanceStatuses lists every status in the order the create form offers them.
var BookInstanceStatuses = []BookInstanceStatus{
	BookInstanceStatusMaintenance,
	BookInstanceStatusAvailable,
	BookInstanceStatusLoaned,
	BookInstanceStatusReserved,
}

const dateLayout = "2006-01-02"

type Author struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	FirstName   string     `gorm:"size:100;not null" json:"first_name"`
	FamilyName  string     `gorm:"size:100;not null;index" json:"family_name"`
	DateOfBirth *time.Time `json:"date_of_birth"`
	DateOfDeath *time.Time `json:"date_of_death"`
}

func (a *Author) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

// Name is the display name, "family name, first name". It is empty unless both
// names are set.
func (a Author) Name() string {
	if a.FirstName == "" || a.FamilyName == "" {
		return ""
	}
	return a.FamilyName + ", " + a.FirstName
}

// Lifespan formats whichever of the two dates are known, e.g. "1775-12-16 - 1817-07-18".
func (a Author) Lifespan() string {
	var birth, death string
	if a.DateOfBirth != nil {
		birth = a.DateOfBirth.Format(dateLayout)
	}
	if a.DateOfDeath != nil {
		death = a.DateOfDeath.Format(dateLayout)
	}
	if birth == "" && death == "" {
		return ""
	}
	return birth + " - " + death
}

func (a Author) URL() string {
	return "/catalog/author/" + a.ID.String()
}

type Genre struct {
	ID   uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name string    `gorm:"size:100;not null;index" json:"name"`
}

func (g *Genre) BeforeCreate(tx *gorm.DB) error {
	if g.ID == uuid.Nil {
		g.ID = uuid.New()
	}
	return nil
}

func (g Genre) URL() string {
	return "/catalog/genre/" + g.ID.String()
}

type Book struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Title    string    `gorm:"not null" json:"title"`
	AuthorID uuid.UUID `gorm:"type:uuid;not null;index" json:"author_id"`
	Author   *Author   `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"author,omitempty"`
	Summary  string    `gorm:"not null" json:"summary"`
	ISBN     string    `gorm:"column:isbn;not null" json:"isbn"`
	Genres   []Genre   `gorm:"many2many:book_genres;" json:"genres,omitempty"`
}

func (b *Book) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

func (b Book) URL() string {
	return "/catalog/book/" + b.ID.String()
}

// GenreIDs returns the referenced genre identifiers in stored order.
func (b Book) GenreIDs() []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(b.Genres))
	for _, g := range b.Genres {
		ids = append(ids, g.ID)
	}
	return ids
}

type BookInstance struct {
	ID      uuid.UUID          `gorm:"type:uuid;primaryKey" json:"id"`
	BookID  uuid.UUID          `gorm:"type:uuid;not null;index" json:"book_id"`
	Book    *Book              `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"book,omitempty"`
	Imprint string             `gorm:"not null" json:"imprint"`
	Status  BookInstanceStatus `gorm:"size:20;not null;default:Maintenance;index" json:"status"`
	DueBack *time.Time         `json:"due_back"`
}

func (bi *BookInstance) BeforeCreate(tx *gorm.DB) error {
	if bi.ID == uuid.Nil {
		bi.ID = uuid.New()
	}
	return nil
}

func (bi BookInstance) URL() string {
	return "/catalog/bookinstance/" + bi.ID.String()
}

// DueBackFormatted is empty when no due-back date is recorded.
func (bi BookInstance) DueBackFormatted() string {
	if bi.DueBack == nil {
		return ""
	}
	return bi.DueBack.Format(dateLayout)
}
