package controllers

import (
	"context"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"go-storefront/models"
	"go-storefront/utils"
)

const maxUploadMemory = 32 << 20

type CatalogService interface {
	Products(ctx context.Context) ([]models.Product, error)
	Product(ctx context.Context, hex string) (*models.Product, error)
	CreateProduct(ctx context.Context, in models.ProductInput, images []string) (*models.Product, error)
	Categories(ctx context.Context) ([]models.Category, error)
	CreateCategory(ctx context.Context, in models.CategoryInput, images []string) (*models.Category, error)
}

// ImageUploader stores uploaded images and returns their public URLs.
type ImageUploader interface {
	Save(files []*multipart.FileHeader) ([]string, error)
	Remove(urls []string) error
}

// ProductController handles product-related requests
type ProductController struct {
	catalog CatalogService
	images  ImageUploader
	logger  *zap.Logger
}

func NewProductController(catalog CatalogService, images ImageUploader, logger *zap.Logger) *ProductController {
	return &ProductController{catalog: catalog, images: images, logger: logger}
}

type listResponse[T any] struct {
	Respond []T `json:"respond"`
}

type createdResponse[T any] struct {
	Message string `json:"message"`
	Data    T      `json:"data"`
}

// GetProducts retrieves all products
func (pc *ProductController) GetProducts(w http.ResponseWriter, r *http.Request) {
	products, err := pc.catalog.Products(r.Context())
	if err != nil {
		respondError(w, pc.logger, "get products", err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, listResponse[models.Product]{Respond: products})
}

// GetProductByID retrieves a single product by ID
func (pc *ProductController) GetProductByID(w http.ResponseWriter, r *http.Request) {
	product, err := pc.catalog.Product(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		respondError(w, pc.logger, "get product", err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, product)
}

// CreateProduct handles adding a new product (Admin only). The request is
// multipart: product fields as form values plus one or more "images" files.
func (pc *ProductController) CreateProduct(w http.ResponseWriter, r *http.Request) {
	files, ok := pc.uploadedImages(w, r)
	if !ok {
		return
	}

	in, err := productInput(r)
	if err == nil {
		err = utils.Validate(in)
	}
	if err != nil {
		respondError(w, pc.logger, "create product", err)
		return
	}

	urls, err := pc.images.Save(files)
	if err != nil {
		respondError(w, pc.logger, "create product", err)
		return
	}
	product, err := pc.catalog.CreateProduct(r.Context(), in, urls)
	if err != nil {
		pc.discard(urls)
		respondError(w, pc.logger, "create product", err)
		return
	}
	utils.WriteJSON(w, http.StatusCreated, createdResponse[*models.Product]{Message: "Product created", Data: product})
}

func (pc *ProductController) GetCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := pc.catalog.Categories(r.Context())
	if err != nil {
		respondError(w, pc.logger, "get categories", err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, listResponse[models.Category]{Respond: categories})
}

// CreateCategory handles adding a new category (Admin only).
func (pc *ProductController) CreateCategory(w http.ResponseWriter, r *http.Request) {
	files, ok := pc.uploadedImages(w, r)
	if !ok {
		return
	}

	in := models.CategoryInput{Name: strings.TrimSpace(r.FormValue("name"))}
	if err := utils.Validate(in); err != nil {
		respondError(w, pc.logger, "create category", err)
		return
	}

	urls, err := pc.images.Save(files)
	if err != nil {
		respondError(w, pc.logger, "create category", err)
		return
	}
	category, err := pc.catalog.CreateCategory(r.Context(), in, urls)
	if err != nil {
		pc.discard(urls)
		respondError(w, pc.logger, "create category", err)
		return
	}
	utils.WriteJSON(w, http.StatusCreated, createdResponse[*models.Category]{Message: "Category created", Data: category})
}

// discard removes images saved for a request that then failed.
func (pc *ProductController) discard(urls []string) {
	if err := pc.images.Remove(urls); err != nil {
		pc.logger.Warn("remove orphaned images", zap.Strings("urls", urls), zap.Error(err))
	}
}

// uploadedImages parses the multipart form and returns its "images" files.
func (pc *ProductController) uploadedImages(w http.ResponseWriter, r *http.Request) ([]*multipart.FileHeader, bool) {
	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Invalid multipart form")
		return nil, false
	}
	files := r.MultipartForm.File["images"]
	if len(files) == 0 {
		utils.WriteError(w, http.StatusBadRequest, "No images uploaded")
		return nil, false
	}
	return files, true
}

func productInput(r *http.Request) (models.ProductInput, error) {
	var fields []utils.FieldError
	number := func(name string) float64 {
		raw := strings.TrimSpace(r.FormValue(name))
		if raw == "" {
			return 0
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			fields = append(fields, utils.FieldError{Path: name, Message: "must be a number"})
		}
		return v
	}
	flag := func(name string) bool {
		v, _ := strconv.ParseBool(strings.TrimSpace(r.FormValue(name)))
		return v
	}

	in := models.ProductInput{
		Name:        strings.TrimSpace(r.FormValue("name")),
		Brand:       strings.TrimSpace(r.FormValue("brand")),
		Price:       number("price"),
		OldPrice:    number("oldPrice"),
		Quantity:    int(number("quantity")),
		Category:    strings.TrimSpace(r.FormValue("category")),
		InStock:     flag("inStock"),
		Trends:      flag("trends"),
		Sale:        flag("sale"),
		Description: r.FormValue("description"),
	}
	if len(fields) > 0 {
		return in, &utils.ValidationError{Message: "Validation failed", Fields: fields}
	}
	return in, nil
}
