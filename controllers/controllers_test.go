package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"go-storefront/middleware"
	"go-storefront/models"
	"go-storefront/pricing"
	"go-storefront/services"
	"go-storefront/utils"
)

type stubAuth struct {
	resp *models.AuthResponse
	err  error

	gotEmail, gotCode string
}

func (s *stubAuth) Register(ctx context.Context, req models.RegisterRequest) (*models.AuthResponse, error) {
	return s.resp, s.err
}

func (s *stubAuth) Login(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error) {
	return s.resp, s.err
}

func (s *stubAuth) RequestPasswordReset(ctx context.Context, email string) error {
	s.gotEmail = email
	return s.err
}

func (s *stubAuth) VerifyResetCode(ctx context.Context, email, code string) error {
	s.gotEmail, s.gotCode = email, code
	return s.err
}

func (s *stubAuth) ResetPassword(ctx context.Context, email, newPassword string) error {
	return s.err
}

type stubCart struct {
	view *models.CartView
	err  error

	gotProduct string
	gotCount   int
}

func (s *stubCart) Get(ctx context.Context, userID primitive.ObjectID) (*models.CartView, error) {
	return s.view, s.err
}

func (s *stubCart) Add(ctx context.Context, userID primitive.ObjectID, productHex string, count int) (*models.CartView, error) {
	s.gotProduct, s.gotCount = productHex, count
	return s.view, s.err
}

func (s *stubCart) Update(ctx context.Context, userID primitive.ObjectID, productHex string, count int) (*models.CartView, error) {
	s.gotProduct, s.gotCount = productHex, count
	return s.view, s.err
}

func (s *stubCart) SetQuantity(ctx context.Context, userID primitive.ObjectID, productHex string, count int) (*models.CartView, error) {
	s.gotProduct, s.gotCount = productHex, count
	return s.view, s.err
}

func (s *stubCart) Remove(ctx context.Context, userID primitive.ObjectID, productHex string) (*models.CartView, error) {
	s.gotProduct = productHex
	return s.view, s.err
}

func (s *stubCart) Clear(ctx context.Context, userID primitive.ObjectID) (*models.CartView, error) {
	return s.view, s.err
}

type stubOrders struct {
	order *models.Order
	err   error

	gotReq models.CreateOrderRequest
	gotID  string
}

func (s *stubOrders) Create(ctx context.Context, user *models.User, req models.CreateOrderRequest) (*models.Order, error) {
	s.gotReq = req
	return s.order, s.err
}

func (s *stubOrders) List(ctx context.Context, userID primitive.ObjectID) ([]models.Order, error) {
	if s.order == nil {
		return []models.Order{}, s.err
	}
	return []models.Order{*s.order}, s.err
}

func (s *stubOrders) Clear(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	return 1, s.err
}

func (s *stubOrders) MarkPaid(ctx context.Context, orderHex string) (*models.Order, error) {
	s.gotID = orderHex
	return s.order, s.err
}

func (s *stubOrders) MarkDelivered(ctx context.Context, orderHex string) (*models.Order, error) {
	s.gotID = orderHex
	return s.order, s.err
}

type stubPayments struct {
	resp *models.PaymentIntentResponse
	err  error
}

func (s *stubPayments) CreateIntent(ctx context.Context, req models.PaymentIntentRequest) (*models.PaymentIntentResponse, error) {
	return s.resp, s.err
}

type stubCatalog struct {
	products []models.Product
	err      error

	gotInput  models.ProductInput
	gotImages []string
}

func (s *stubCatalog) Products(ctx context.Context) ([]models.Product, error) {
	return s.products, s.err
}

func (s *stubCatalog) Product(ctx context.Context, hex string) (*models.Product, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &s.products[0], nil
}

func (s *stubCatalog) CreateProduct(ctx context.Context, in models.ProductInput, images []string) (*models.Product, error) {
	s.gotInput, s.gotImages = in, images
	if s.err != nil {
		return nil, s.err
	}
	return &models.Product{ID: primitive.NewObjectID(), Name: in.Name, Images: images, Price: in.Price}, nil
}

func (s *stubCatalog) Categories(ctx context.Context) ([]models.Category, error) {
	return []models.Category{}, s.err
}

func (s *stubCatalog) CreateCategory(ctx context.Context, in models.CategoryInput, images []string) (*models.Category, error) {
	return &models.Category{ID: primitive.NewObjectID(), Name: in.Name, Images: images}, s.err
}

type stubUploader struct {
	urls []string
	err  error
	n    int

	removed []string
}

func (s *stubUploader) Save(files []*multipart.FileHeader) ([]string, error) {
	s.n = len(files)
	return s.urls, s.err
}

func (s *stubUploader) Remove(urls []string) error {
	s.removed = append(s.removed, urls...)
	return nil
}

type stubAccount struct {
	addrs []models.Address
	err   error

	gotAddrID string
}

func (s *stubAccount) UpdateProfile(ctx context.Context, userID primitive.ObjectID, upd models.ProfileUpdate) (*models.User, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &models.User{ID: userID, Name: upd.Name, Email: upd.Email}, nil
}

func (s *stubAccount) AddAddress(ctx context.Context, userID primitive.ObjectID, addr models.ShippingAddress) ([]models.Address, error) {
	return s.addrs, s.err
}

func (s *stubAccount) Addresses(ctx context.Context, userID primitive.ObjectID) ([]models.Address, error) {
	return s.addrs, s.err
}

func (s *stubAccount) UpdateAddress(ctx context.Context, userID primitive.ObjectID, addrID string, addr models.ShippingAddress) ([]models.Address, error) {
	s.gotAddrID = addrID
	return s.addrs, s.err
}

func (s *stubAccount) DeleteAddress(ctx context.Context, userID primitive.ObjectID, addrID string) ([]models.Address, error) {
	s.gotAddrID = addrID
	return s.addrs, s.err
}

func (s *stubAccount) DeleteAccount(ctx context.Context, userID primitive.ObjectID) error {
	return s.err
}

type stubTokens struct{}

func (stubTokens) Generate(userID string) (string, error) { return "token-" + userID, nil }

var testUser = &models.User{ID: primitive.NewObjectID(), Name: "Ann", Email: "ann@example.com"}

func jsonRequest(t *testing.T, method, target string, body any) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	if s, ok := body.(string); ok {
		buf.WriteString(s)
	} else {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	return req
}

func authed(req *http.Request) *http.Request {
	return req.WithContext(middleware.WithUser(req.Context(), testUser))
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) utils.ErrorBody {
	t.Helper()
	var body utils.ErrorBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestRespondError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
		msg  string
	}{
		{name: "stock", err: &services.StockError{Available: 2}, want: http.StatusBadRequest, msg: "Only 2 items available"},
		{name: "wrapped not found", err: errors.Join(errors.New("ctx"), services.ErrProductNotFound), want: http.StatusNotFound, msg: "Product not found"},
		{name: "credentials", err: services.ErrInvalidCredentials, want: http.StatusUnauthorized, msg: "Invalid email or password"},
		{name: "email taken", err: services.ErrEmailTaken, want: http.StatusConflict, msg: "User already exists"},
		{name: "intent reused", err: services.ErrPaymentAlreadyUsed, want: http.StatusConflict},
		{name: "amount mismatch", err: services.ErrAmountMismatch, want: http.StatusBadRequest},
		{name: "no gateway", err: services.ErrGatewayUnavailable, want: http.StatusServiceUnavailable},
		{name: "unknown", err: errors.New("boom"), want: http.StatusInternalServerError, msg: "Server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			respondError(rec, zap.NewNop(), "test", tt.err)

			assert.Equal(t, tt.want, rec.Code)
			if tt.msg != "" {
				assert.Equal(t, tt.msg, decodeError(t, rec).Message)
			}
		})
	}
}

func TestRegister(t *testing.T) {
	t.Run("validation errors carry field paths", func(t *testing.T) {
		uc := NewUserController(&stubAuth{}, zap.NewNop())
		rec := httptest.NewRecorder()

		uc.Register(rec, jsonRequest(t, http.MethodPost, "/user/register", map[string]string{
			"name": "Ann", "email": "not-an-email", "password": "123",
		}))

		require.Equal(t, http.StatusBadRequest, rec.Code)
		body := decodeError(t, rec)
		paths := make([]string, 0, len(body.Errors))
		for _, f := range body.Errors {
			paths = append(paths, f.Path)
		}
		assert.ElementsMatch(t, []string{"email", "password"}, paths)
	})

	t.Run("malformed body", func(t *testing.T) {
		uc := NewUserController(&stubAuth{}, zap.NewNop())
		rec := httptest.NewRecorder()

		uc.Register(rec, jsonRequest(t, http.MethodPost, "/user/register", "{"))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "Invalid request body", decodeError(t, rec).Message)
	})

	t.Run("duplicate email", func(t *testing.T) {
		uc := NewUserController(&stubAuth{err: services.ErrEmailTaken}, zap.NewNop())
		rec := httptest.NewRecorder()

		uc.Register(rec, jsonRequest(t, http.MethodPost, "/user/register", models.RegisterRequest{
			Name: "Ann", Email: "ann@example.com", Password: "secret1",
		}))

		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("created", func(t *testing.T) {
		resp := &models.AuthResponse{ID: testUser.ID, Name: "Ann", Email: "ann@example.com", Token: "tok"}
		uc := NewUserController(&stubAuth{resp: resp}, zap.NewNop())
		rec := httptest.NewRecorder()

		uc.Register(rec, jsonRequest(t, http.MethodPost, "/user/register", models.RegisterRequest{
			Name: "Ann", Email: "ann@example.com", Password: "secret1",
		}))

		require.Equal(t, http.StatusCreated, rec.Code)
		var got models.AuthResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		assert.Equal(t, "tok", got.Token)
	})
}

func TestLogin_InvalidCredentials(t *testing.T) {
	uc := NewUserController(&stubAuth{err: services.ErrInvalidCredentials}, zap.NewNop())
	rec := httptest.NewRecorder()

	uc.Login(rec, jsonRequest(t, http.MethodPost, "/user/login", models.LoginRequest{Email: "ann@example.com", Password: "x"}))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestVerifyOTP(t *testing.T) {
	auth := &stubAuth{}
	uc := NewUserController(auth, zap.NewNop())

	rec := httptest.NewRecorder()
	uc.VerifyOTP(rec, jsonRequest(t, http.MethodPost, "/user/verify-otp", models.VerifyOTPRequest{Email: "ann@example.com", OTP: "12ab56"}))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, auth.gotCode)

	rec = httptest.NewRecorder()
	uc.VerifyOTP(rec, jsonRequest(t, http.MethodPost, "/user/verify-otp", models.VerifyOTPRequest{Email: "ann@example.com", OTP: "123456"}))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "123456", auth.gotCode)

	auth.err = services.ErrOTPInvalid
	rec = httptest.NewRecorder()
	uc.VerifyOTP(rec, jsonRequest(t, http.MethodPost, "/user/verify-otp", models.VerifyOTPRequest{Email: "ann@example.com", OTP: "123456"}))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid or expired OTP", decodeError(t, rec).Message)
}

func TestCartController(t *testing.T) {
	t.Run("requires a user", func(t *testing.T) {
		cc := NewCartController(&stubCart{}, zap.NewNop())
		rec := httptest.NewRecorder()

		cc.GetCart(rec, httptest.NewRequest(http.MethodGet, "/cart", nil))

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("stock shortfall", func(t *testing.T) {
		svc := &stubCart{err: &services.StockError{Available: 1}}
		cc := NewCartController(svc, zap.NewNop())
		rec := httptest.NewRecorder()

		cc.AddToCart(rec, authed(jsonRequest(t, http.MethodPost, "/cart", models.AddCartItemRequest{ProductID: "p1", Count: 2})))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "Only 1 items available", decodeError(t, rec).Message)
	})

	t.Run("zero count rejected on add", func(t *testing.T) {
		svc := &stubCart{}
		cc := NewCartController(svc, zap.NewNop())
		rec := httptest.NewRecorder()

		cc.AddToCart(rec, authed(jsonRequest(t, http.MethodPost, "/cart", models.AddCartItemRequest{ProductID: "p1", Count: 0})))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Empty(t, svc.gotProduct)
	})

	t.Run("patch uses path product", func(t *testing.T) {
		product := models.Product{ID: primitive.NewObjectID(), Name: "Mug"}
		svc := &stubCart{view: &models.CartView{Items: []models.CartLine{{Product: product, Count: 3}}}}
		cc := NewCartController(svc, zap.NewNop())
		rec := httptest.NewRecorder()

		req := authed(jsonRequest(t, http.MethodPatch, "/cart/"+product.ID.Hex(), models.SetQuantityRequest{Count: 3}))
		req = mux.SetURLVars(req, map[string]string{"productId": product.ID.Hex()})
		cc.UpdateCartQuantity(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, product.ID.Hex(), svc.gotProduct)
		assert.Equal(t, 3, svc.gotCount)

		var view models.CartView
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
		require.Len(t, view.Items, 1)
		assert.Equal(t, "Mug", view.Items[0].Product.Name)
	})

	t.Run("update to zero is allowed", func(t *testing.T) {
		zero := 0
		svc := &stubCart{view: &models.CartView{Items: []models.CartLine{}}}
		cc := NewCartController(svc, zap.NewNop())
		rec := httptest.NewRecorder()

		cc.UpdateCartItem(rec, authed(jsonRequest(t, http.MethodPut, "/cart", models.UpdateCartItemRequest{ProductID: "p1", Count: &zero})))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "p1", svc.gotProduct)
		assert.Equal(t, 0, svc.gotCount)
	})

	t.Run("update without count is rejected", func(t *testing.T) {
		svc := &stubCart{view: &models.CartView{Items: []models.CartLine{}}}
		cc := NewCartController(svc, zap.NewNop())
		rec := httptest.NewRecorder()

		cc.UpdateCartItem(rec, authed(jsonRequest(t, http.MethodPut, "/cart", map[string]string{"productId": "p1"})))

		require.Equal(t, http.StatusBadRequest, rec.Code)
		body := decodeError(t, rec)
		require.Len(t, body.Errors, 1)
		assert.Equal(t, "count", body.Errors[0].Path)
		assert.Empty(t, svc.gotProduct)
	})
}

func validOrderRequest() models.CreateOrderRequest {
	return models.CreateOrderRequest{
		OrderItems: []models.OrderItem{{Product: primitive.NewObjectID(), Qty: 1, Price: 100}},
		ShippingAddress: models.ShippingAddress{
			Name: "Ann", Phone: "0820000000", City: "Durban", HouseNo: "1",
			StreetName: "Main", PostalCode: "4001", Country: "ZA",
		},
		PaymentMethod:  models.PaymentMethodCard,
		ItemsPrice:     100,
		ShippingPrice:  350,
		TotalPrice:     450,
		DeliveryOption: pricing.Standard,
		PaymentData:    &models.PaymentData{PaymentIntentID: "pi_1"},
	}
}

func TestCreateOrder(t *testing.T) {
	t.Run("validation", func(t *testing.T) {
		req := validOrderRequest()
		req.OrderItems[0].Qty = 0
		req.PaymentMethod = "bitcoin"
		svc := &stubOrders{}
		oc := NewOrderController(svc, zap.NewNop())
		rec := httptest.NewRecorder()

		oc.CreateOrder(rec, authed(jsonRequest(t, http.MethodPost, "/user/order", req)))

		require.Equal(t, http.StatusBadRequest, rec.Code)
		paths := []string{}
		for _, f := range decodeError(t, rec).Errors {
			paths = append(paths, f.Path)
		}
		assert.ElementsMatch(t, []string{"orderItems[0].qty", "paymentMethod"}, paths)
	})

	t.Run("empty items", func(t *testing.T) {
		req := validOrderRequest()
		req.OrderItems = nil
		oc := NewOrderController(&stubOrders{}, zap.NewNop())
		rec := httptest.NewRecorder()

		oc.CreateOrder(rec, authed(jsonRequest(t, http.MethodPost, "/user/order", req)))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("reused intent", func(t *testing.T) {
		oc := NewOrderController(&stubOrders{err: services.ErrPaymentAlreadyUsed}, zap.NewNop())
		rec := httptest.NewRecorder()

		oc.CreateOrder(rec, authed(jsonRequest(t, http.MethodPost, "/user/order", validOrderRequest())))

		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("created", func(t *testing.T) {
		order := &models.Order{ID: primitive.NewObjectID(), PaymentStatus: models.PaymentStatusPaid}
		svc := &stubOrders{order: order}
		oc := NewOrderController(svc, zap.NewNop())
		rec := httptest.NewRecorder()

		oc.CreateOrder(rec, authed(jsonRequest(t, http.MethodPost, "/user/order", validOrderRequest())))

		require.Equal(t, http.StatusCreated, rec.Code)
		assert.Equal(t, "pi_1", svc.gotReq.IntentID())
		var got orderResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		assert.Equal(t, order.ID, got.Order.ID)
	})
}

func TestMarkDelivered_NotFound(t *testing.T) {
	svc := &stubOrders{err: services.ErrOrderNotFound}
	oc := NewOrderController(svc, zap.NewNop())
	rec := httptest.NewRecorder()

	req := mux.SetURLVars(httptest.NewRequest(http.MethodPut, "/orders/abc/deliver", nil), map[string]string{"id": "abc"})
	oc.UpdateOrderDeliveryStatus(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "abc", svc.gotID)
}

func TestCreatePaymentIntent(t *testing.T) {
	t.Run("below minimum", func(t *testing.T) {
		pc := NewPaymentController(&stubPayments{}, zap.NewNop())
		rec := httptest.NewRecorder()

		pc.CreatePaymentIntent(rec, authed(jsonRequest(t, http.MethodPost, "/payment/create-order", models.PaymentIntentRequest{Amount: 10, Currency: "zar"})))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("gateway not configured", func(t *testing.T) {
		pc := NewPaymentController(&stubPayments{err: services.ErrGatewayUnavailable}, zap.NewNop())
		rec := httptest.NewRecorder()

		pc.CreatePaymentIntent(rec, authed(jsonRequest(t, http.MethodPost, "/payment/create-order", models.PaymentIntentRequest{Amount: 45000, Currency: "zar"})))

		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	})

	t.Run("ok", func(t *testing.T) {
		resp := &models.PaymentIntentResponse{ClientSecret: "cs", PaymentIntentID: "pi_1", Amount: 45000, Currency: "zar"}
		pc := NewPaymentController(&stubPayments{resp: resp}, zap.NewNop())
		rec := httptest.NewRecorder()

		pc.CreatePaymentIntent(rec, authed(jsonRequest(t, http.MethodPost, "/payment/create-order", models.PaymentIntentRequest{Amount: 45000, Currency: "zar"})))

		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"client_secret":"cs","payment_intent_id":"pi_1","amount":45000,"currency":"zar"}`, rec.Body.String())
	})
}

func multipartRequest(t *testing.T, target string, fields map[string]string, images int) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	for i := 0; i < images; i++ {
		fw, err := mw.CreateFormFile("images", "photo.png")
		require.NoError(t, err)
		_, err = fw.Write([]byte("not really a png"))
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, target, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestCreateProduct(t *testing.T) {
	fields := map[string]string{
		"name": "Mug", "price": "120.50", "quantity": "4", "category": primitive.NewObjectID().Hex(),
		"inStock": "true", "sale": "false",
	}

	t.Run("no images", func(t *testing.T) {
		pc := NewProductController(&stubCatalog{}, &stubUploader{}, zap.NewNop())
		rec := httptest.NewRecorder()

		pc.CreateProduct(rec, multipartRequest(t, "/products/createProducts", fields, 0))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "No images uploaded", decodeError(t, rec).Message)
	})

	t.Run("bad number", func(t *testing.T) {
		uploader := &stubUploader{}
		pc := NewProductController(&stubCatalog{}, uploader, zap.NewNop())
		rec := httptest.NewRecorder()

		bad := map[string]string{"name": "Mug", "price": "cheap", "category": "c"}
		pc.CreateProduct(rec, multipartRequest(t, "/products/createProducts", bad, 1))

		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "price", decodeError(t, rec).Errors[0].Path)
		assert.Zero(t, uploader.n)
	})

	t.Run("unsupported image", func(t *testing.T) {
		pc := NewProductController(&stubCatalog{}, &stubUploader{err: utils.ErrUnsupportedImage}, zap.NewNop())
		rec := httptest.NewRecorder()

		pc.CreateProduct(rec, multipartRequest(t, "/products/createProducts", fields, 1))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("unknown category removes saved images", func(t *testing.T) {
		catalog := &stubCatalog{err: services.ErrCategoryNotFound}
		uploader := &stubUploader{urls: []string{"http://localhost:8000/assets/a.jpg"}}
		pc := NewProductController(catalog, uploader, zap.NewNop())
		rec := httptest.NewRecorder()

		pc.CreateProduct(rec, multipartRequest(t, "/products/createProducts", fields, 1))

		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, uploader.urls, uploader.removed)
	})

	t.Run("created", func(t *testing.T) {
		catalog := &stubCatalog{}
		uploader := &stubUploader{urls: []string{"http://localhost:8000/assets/a.jpg", "http://localhost:8000/assets/b.jpg"}}
		pc := NewProductController(catalog, uploader, zap.NewNop())
		rec := httptest.NewRecorder()

		pc.CreateProduct(rec, multipartRequest(t, "/products/createProducts", fields, 2))

		require.Equal(t, http.StatusCreated, rec.Code)
		assert.Equal(t, 2, uploader.n)
		assert.Equal(t, 120.50, catalog.gotInput.Price)
		assert.Equal(t, 4, catalog.gotInput.Quantity)
		assert.True(t, catalog.gotInput.InStock)
		assert.False(t, catalog.gotInput.Sale)
		assert.Equal(t, uploader.urls, catalog.gotImages)
	})
}

func TestGetProducts(t *testing.T) {
	products := []models.Product{{ID: primitive.NewObjectID(), Name: "Mug"}}
	pc := NewProductController(&stubCatalog{products: products}, &stubUploader{}, zap.NewNop())
	rec := httptest.NewRecorder()

	pc.GetProducts(rec, httptest.NewRequest(http.MethodGet, "/products/getProducts", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var got listResponse[models.Product]
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got.Respond, 1)
	assert.Equal(t, "Mug", got.Respond[0].Name)
}

func TestAccountController(t *testing.T) {
	t.Run("update address by id", func(t *testing.T) {
		svc := &stubAccount{err: services.ErrAddressNotFound}
		ac := NewAccountController(svc, stubTokens{}, zap.NewNop())
		rec := httptest.NewRecorder()

		addr := validOrderRequest().ShippingAddress
		req := authed(jsonRequest(t, http.MethodPut, "/user/address/a1", addr))
		req = mux.SetURLVars(req, map[string]string{"id": "a1"})
		ac.UpdateAddress(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "a1", svc.gotAddrID)
	})

	t.Run("address requires fields", func(t *testing.T) {
		ac := NewAccountController(&stubAccount{}, stubTokens{}, zap.NewNop())
		rec := httptest.NewRecorder()

		ac.AddAddress(rec, authed(jsonRequest(t, http.MethodPost, "/user/address", models.ShippingAddress{Name: "Ann"})))

		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Len(t, decodeError(t, rec).Errors, 6)
	})

	t.Run("profile update returns a fresh token", func(t *testing.T) {
		ac := NewAccountController(&stubAccount{}, stubTokens{}, zap.NewNop())
		rec := httptest.NewRecorder()

		ac.UpdateProfile(rec, authed(jsonRequest(t, http.MethodPut, "/user/profile", models.ProfileUpdate{Name: "Anne", Email: "anne@example.com"})))

		require.Equal(t, http.StatusOK, rec.Code)
		var got models.AuthResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		assert.Equal(t, "token-"+testUser.ID.Hex(), got.Token)
		assert.Equal(t, "Anne", got.Name)
	})

	t.Run("profile hides password", func(t *testing.T) {
		ac := NewAccountController(&stubAccount{}, stubTokens{}, zap.NewNop())
		rec := httptest.NewRecorder()

		u := *testUser
		u.Password = "hash"
		req := httptest.NewRequest(http.MethodGet, "/user/profile", nil)
		ac.GetProfile(rec, req.WithContext(middleware.WithUser(req.Context(), &u)))

		require.Equal(t, http.StatusOK, rec.Code)
		assert.NotContains(t, rec.Body.String(), "hash")
	})
}

func TestLovedController_RemoveWithoutDocument(t *testing.T) {
	lc := NewLovedController(stubLoved{err: services.ErrLovedNotFound}, zap.NewNop())
	rec := httptest.NewRecorder()

	lc.RemoveLoved(rec, authed(jsonRequest(t, http.MethodPost, "/user/remove", models.LovedRequest{ProductID: "p1"})))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

type stubLoved struct {
	items []string
	err   error
}

func (s stubLoved) List(ctx context.Context, userID primitive.ObjectID) ([]string, error) {
	return s.items, s.err
}

func (s stubLoved) Add(ctx context.Context, userID primitive.ObjectID, productID string) ([]string, error) {
	return s.items, s.err
}

func (s stubLoved) Remove(ctx context.Context, userID primitive.ObjectID, productID string) ([]string, error) {
	return s.items, s.err
}

func (s stubLoved) Clear(ctx context.Context, userID primitive.ObjectID) error { return s.err }

func TestDeliveryOptions(t *testing.T) {
	dc := NewDeliveryController(pricing.DefaultRules(6000))
	rec := httptest.NewRecorder()

	dc.GetOptions(rec, httptest.NewRequest(http.MethodGet, "/delivery/options", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var got pricing.Rules
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got.Tiers, 4)
	assert.True(t, got.FreeDeliveryFrom.Equal(pricing.DefaultRules(6000).FreeDeliveryFrom))
}
