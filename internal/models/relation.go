package models

import (
	"time"

	"github.com/google/uuid"
)

// RelationKind describes one user -> target membership table. The relation
// manager and repository work on any kind through this descriptor.
type RelationKind struct {
	Name           string
	Resource       string
	Table          string
	TargetColumn   string
	TargetTable    string
	TargetResource string
	ForbidSelf     bool
}

// TargetsRecipes reports whether the relation points at recipes.
func (k RelationKind) TargetsRecipes() bool {
	return k.TargetTable == "recipes"
}

var (
	FavoriteKind = RelationKind{
		Name:           "favorite",
		Resource:       "Favorite",
		Table:          "favorites",
		TargetColumn:   "recipe_id",
		TargetTable:    "recipes",
		TargetResource: "Recipe",
	}
	ShoppingCartKind = RelationKind{
		Name:           "shopping_cart",
		Resource:       "ShoppingCart",
		Table:          "shopping_carts",
		TargetColumn:   "recipe_id",
		TargetTable:    "recipes",
		TargetResource: "Recipe",
	}
	FollowKind = RelationKind{
		Name:           "follow",
		Resource:       "Follow",
		Table:          "follows",
		TargetColumn:   "author_id",
		TargetTable:    "users",
		TargetResource: "User",
		ForbidSelf:     true,
	}
)

// RelationKinds lists every relation kind.
var RelationKinds = []RelationKind{FavoriteKind, ShoppingCartKind, FollowKind}

// RelationKindByName looks a kind up by its Name.
func RelationKindByName(name string) (RelationKind, bool) {
	for _, k := range RelationKinds {
		if k.Name == name {
			return k, true
		}
	}
	return RelationKind{}, false
}

// Favorite marks a recipe as favorited by a user.
type Favorite struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:varchar(36);not null;uniqueIndex:idx_favorite_user_recipe" json:"user_id"`
	RecipeID  uuid.UUID `gorm:"type:varchar(36);not null;uniqueIndex:idx_favorite_user_recipe;index" json:"recipe_id"`
	CreatedAt time.Time `json:"created_at"`

	User   User   `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Recipe Recipe `gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE" json:"-"`
}

func (Favorite) TableName() string {
	return "favorites"
}

// ShoppingCart places a recipe in a user's cart.
type ShoppingCart struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:varchar(36);not null;uniqueIndex:idx_cart_user_recipe" json:"user_id"`
	RecipeID  uuid.UUID `gorm:"type:varchar(36);not null;uniqueIndex:idx_cart_user_recipe;index" json:"recipe_id"`
	CreatedAt time.Time `json:"created_at"`

	User   User   `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Recipe Recipe `gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE" json:"-"`
}

func (ShoppingCart) TableName() string {
	return "shopping_carts"
}

// Follow subscribes a user to an author.
type Follow struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:varchar(36);not null;uniqueIndex:idx_follow_user_author" json:"user_id"`
	AuthorID  uuid.UUID `gorm:"type:varchar(36);not null;uniqueIndex:idx_follow_user_author;index" json:"author_id"`
	CreatedAt time.Time `json:"created_at"`

	User   User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Author User `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE" json:"-"`
}

func (Follow) TableName() string {
	return "follows"
}
