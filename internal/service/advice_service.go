package service

import (
	"context"
	"errors"
	"fmt"
	"log"

	"learning-service/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// AdviceService resolves knowledge-gap tags to concept-link resources.
type AdviceService struct {
	Links ConceptLinkStore
}

func NewAdviceService(links ConceptLinkStore) *AdviceService {
	return &AdviceService{Links: links}
}

func (s *AdviceService) CreateLink(ctx context.Context, link *models.ConceptLink) error {
	return s.Links.Create(ctx, link)
}

func (s *AdviceService) GetLink(ctx context.Context, id string) (*models.ConceptLink, error) {
	link, err := s.Links.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrConceptLinkNotFound
		}
		return nil, err
	}
	return link, nil
}

func (s *AdviceService) ListLinks(ctx context.Context, limit, skip int64) ([]models.ConceptLink, error) {
	return s.Links.FindAll(ctx, limit, skip)
}

func (s *AdviceService) UpdateLink(ctx context.Context, id string, update bson.M) error {
	if _, err := s.GetLink(ctx, id); err != nil {
		return err
	}
	return s.Links.Update(ctx, id, update)
}

func (s *AdviceService) DeleteLink(ctx context.Context, id string) error {
	err := s.Links.Delete(ctx, id)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return ErrConceptLinkNotFound
	}
	return err
}

// GetAdvice returns exactly one entry per requested gap, in input order.
// A gap without a matching concept link yields a placeholder entry rather
// than being dropped.
func (s *AdviceService) GetAdvice(ctx context.Context, gaps []string) []models.Advice {
	advice := make([]models.Advice, 0, len(gaps))
	for _, gap := range gaps {
		link, err := s.Links.SearchFirst(ctx, gap)
		if err != nil {
			if !errors.Is(err, mongo.ErrNoDocuments) {
				log.Printf("concept link lookup failed for %q: %v", gap, err)
			}
			advice = append(advice, models.Advice{
				Title:       gap,
				Description: fmt.Sprintf("No resources found for %s", gap),
				Links:       []string{},
				Concepts:    []string{gap},
			})
			continue
		}
		advice = append(advice, models.Advice{
			Title:       gap,
			Description: link.Description,
			Links:       link.Links,
			Concepts:    link.Concepts,
		})
	}
	return advice
}
