package articles

import (
	"context"
	"fmt"

	"provenance-api/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Gateway persists articles through gorm.
type Gateway struct {
	db *gorm.DB
}

// NewGateway returns a Gateway backed by db.
func NewGateway(db *gorm.DB) *Gateway {
	return &Gateway{db: db}
}

// FindAll returns every article ordered by ID.
func (g *Gateway) FindAll(ctx context.Context) ([]models.Article, error) {
	var articles []models.Article
	if err := g.db.WithContext(ctx).Order("id asc").Find(&articles).Error; err != nil {
		return nil, fmt.Errorf("find all articles: %w", err)
	}
	return articles, nil
}

// FindAvailable returns the articles flagged available, ordered by ID.
func (g *Gateway) FindAvailable(ctx context.Context) ([]models.Article, error) {
	var articles []models.Article
	if err := g.db.WithContext(ctx).Where("available = ?", true).Order("id asc").Find(&articles).Error; err != nil {
		return nil, fmt.Errorf("find available articles: %w", err)
	}
	return articles, nil
}

// Save stores a new available article with the given title.
func (g *Gateway) Save(ctx context.Context, title string) (models.Article, error) {
	article := models.Article{Title: title, Available: true}
	if err := g.db.WithContext(ctx).Create(&article).Error; err != nil {
		return models.Article{}, fmt.Errorf("save article: %w", err)
	}
	return article, nil
}

// Clear deletes every article.
func (g *Gateway) Clear(ctx context.Context) error {
	return clearArticles(g.db.WithContext(ctx))
}

// ReplaceAll clears the table and saves one available article per title in
// a single transaction, so readers never observe an empty store mid-refresh.
func (g *Gateway) ReplaceAll(ctx context.Context, titles []string) (int, error) {
	err := g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := clearArticles(tx); err != nil {
			return err
		}
		if len(titles) == 0 {
			return nil
		}
		batch := make([]models.Article, 0, len(titles))
		for _, title := range titles {
			batch = append(batch, models.Article{Title: title, Available: true})
		}
		if err := tx.Create(&batch).Error; err != nil {
			return fmt.Errorf("save articles: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return len(titles), nil
}

// Seed inserts records, leaving any article whose ID already exists alone.
func (g *Gateway) Seed(ctx context.Context, records []models.Article) error {
	if len(records) == 0 {
		return nil
	}
	batch := append([]models.Article(nil), records...)
	if err := g.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&batch).Error; err != nil {
		return fmt.Errorf("seed articles: %w", err)
	}
	return nil
}

func clearArticles(db *gorm.DB) error {
	if err := db.Where("1 = 1").Delete(&models.Article{}).Error; err != nil {
		return fmt.Errorf("clear articles: %w", err)
	}
	return nil
}

// DefaultSeed is the initial article set served before the first refresh.
var DefaultSeed = []models.Article{
	{ID: 10101, Title: "Programming Languages InfoQ Trends Report - October 2019 4", Available: true},
	{ID: 10106, Title: "Ryan Kitchens on Learning from Incidents at Netflix, the Role of SRE, and Sociotechnical Systems", Available: true},
}
