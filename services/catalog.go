package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go-storefront/models"
	"go-storefront/store"
)

// CatalogService lists and creates products and categories.
type CatalogService struct {
	products   ProductRepository
	categories CategoryRepository
}

func NewCatalogService(products ProductRepository, categories CategoryRepository) *CatalogService {
	return &CatalogService{products: products, categories: categories}
}

func (s *CatalogService) Products(ctx context.Context) ([]models.Product, error) {
	products, err := s.products.ListProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	if products == nil {
		products = []models.Product{}
	}
	return products, nil
}

func (s *CatalogService) Product(ctx context.Context, hex string) (*models.Product, error) {
	id, err := parseID(hex)
	if err != nil {
		return nil, err
	}
	p, err := s.products.GetProduct(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return p, nil
}

// CreateProduct stores a product under an existing category with the given image URLs.
func (s *CatalogService) CreateProduct(ctx context.Context, in models.ProductInput, images []string) (*models.Product, error) {
	categoryID, err := parseID(in.Category)
	if err != nil {
		return nil, err
	}
	if _, err := s.categories.GetCategory(ctx, categoryID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("get category: %w", err)
	}

	p := &models.Product{
		Name:        strings.TrimSpace(in.Name),
		Images:      images,
		Brand:       in.Brand,
		Price:       in.Price,
		OldPrice:    in.OldPrice,
		Quantity:    in.Quantity,
		Category:    categoryID,
		InStock:     in.InStock,
		Trends:      in.Trends,
		Sale:        in.Sale,
		Description: in.Description,
	}
	if err := s.products.CreateProduct(ctx, p); err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}
	return p, nil
}

func (s *CatalogService) Categories(ctx context.Context) ([]models.Category, error) {
	categories, err := s.categories.ListCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	if categories == nil {
		categories = []models.Category{}
	}
	return categories, nil
}

func (s *CatalogService) CreateCategory(ctx context.Context, in models.CategoryInput, images []string) (*models.Category, error) {
	c := &models.Category{Name: strings.TrimSpace(in.Name), Images: images}
	if err := s.categories.CreateCategory(ctx, c); err != nil {
		return nil, fmt.Errorf("create category: %w", err)
	}
	return c, nil
}
