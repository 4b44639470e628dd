package httpapi

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"august/internal/domain"
	"august/internal/pagination"
	"august/internal/repository"
	"august/internal/service"
)

type Server struct {
	engine    *gin.Engine
	catalog   *service.CatalogService
	customers *service.CustomerService
	carts     *service.CartService
	orders    *service.OrderService
}

func NewServer(catalog *service.CatalogService, customers *service.CustomerService, carts *service.CartService, orders *service.OrderService) *Server {
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery(), metricsMiddleware())
	s := &Server{engine: r, catalog: catalog, customers: customers, carts: carts, orders: orders}
	s.registerRoutes()
	return s
}

func (s *Server) Engine() *gin.Engine { return s.engine }

func (s *Server) registerRoutes() {
	// Swagger UI
	s.engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	s.engine.GET("/metrics", metricsHandler())

	products := s.engine.Group("/products")
	products.GET("", s.listProducts)
	products.GET("/search", s.searchProducts)
	products.GET("/categories", s.listCategories)
	products.POST("", s.createProduct)
	products.PATCH(":id", s.updateProduct)
	products.DELETE(":id", s.deleteProduct)

	customers := s.engine.Group("/customers")
	customers.POST("", s.createCustomer)
	customers.GET(":customerId", s.getCustomer)
	customers.PATCH(":customerId", s.updateCustomer)
	customers.DELETE(":customerId", s.deleteCustomer)
	customers.GET(":customerId/orders", s.getCustomerOrders)
	customers.POST(":customerId/cart", s.createCart)
	customers.GET(":customerId/cart", s.getCart)
	customers.POST(":customerId/cart/item", s.addItemToCart)

	orders := s.engine.Group("/orders")
	orders.GET(":id", s.getOrder)
	orders.PATCH(":id", s.updateOrder)
}

// request DTOs

type addressReq struct {
	Street     string `json:"street" binding:"required"`
	City       string `json:"city" binding:"required"`
	State      string `json:"state" binding:"required"`
	PostalCode string `json:"postalCode" binding:"required"`
	Country    string `json:"country" binding:"required"`
}

type customerReq struct {
	Name    string     `json:"name" binding:"required"`
	Email   string     `json:"email" binding:"required,email"`
	Address addressReq `json:"address" binding:"required"`
}

type productReq struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description" binding:"required"`
	Price       *int64 `json:"price" binding:"required,gte=0"`
	Stock       *int64 `json:"stock" binding:"required,gte=0"`
	Category    string `json:"category" binding:"required"`
}

type orderReq struct {
	Status  *string           `json:"status" binding:"omitempty,oneof=cart processing shipped delivered"`
	Payment map[string]string `json:"payment"`
}

type addItemReq struct {
	ProductName string `json:"productName" binding:"required"`
	Quantity    int64  `json:"quantity" binding:"required,gt=0"`
}

// Product handlers

// @Summary List products
// @Tags products
// @Produce json
// @Param category query string false "Category name"
// @Param afterToken query string false "Continuation token"
// @Param pageSize query int false "Page size" default(10)
// @Success 200 {object} pagination.Page[domain.Product]
// @Failure 404 {object} map[string]string
// @Router /products [get]
func (s *Server) listProducts(c *gin.Context) {
	page, err := s.catalog.ListProducts(c, c.Query("category"), intQuery(c, "pageSize", 10), c.Query("afterToken"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// @Summary Search products by price range
// @Tags products
// @Produce json
// @Param minPrice query int false "Minimum price" default(0)
// @Param maxPrice query int false "Maximum price" default(10000)
// @Param afterToken query string false "Continuation token"
// @Param pageSize query int false "Page size" default(10)
// @Success 200 {object} pagination.Page[domain.Product]
// @Router /products/search [get]
func (s *Server) searchProducts(c *gin.Context) {
	page, err := s.catalog.SearchProducts(c,
		int64Query(c, "minPrice", 0), int64Query(c, "maxPrice", 10000),
		intQuery(c, "pageSize", 10), c.Query("afterToken"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// @Summary List category names
// @Tags products
// @Produce json
// @Success 200 {array} string
// @Router /products/categories [get]
func (s *Server) listCategories(c *gin.Context) {
	names, err := s.catalog.CategoryNames(c)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, names)
}

// @Summary Create product
// @Tags products
// @Accept json
// @Produce json
// @Param input body productReq true "Product"
// @Success 201 {object} domain.Product
// @Failure 400 {object} map[string]string
// @Router /products [post]
func (s *Server) createProduct(c *gin.Context) {
	var req productReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	p, err := s.catalog.CreateProduct(c, service.ProductInput{
		Name:        req.Name,
		Description: req.Description,
		Price:       *req.Price,
		Stock:       *req.Stock,
		Category:    req.Category,
	})
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, p)
}

// @Summary Update product
// @Tags products
// @Accept json
// @Produce json
// @Param id path string true "Product ID"
// @Param input body productReq true "Product"
// @Success 200 {object} domain.Product
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /products/{id} [patch]
func (s *Server) updateProduct(c *gin.Context) {
	var req productReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	p, err := s.catalog.UpdateProduct(c, c.Param("id"), service.ProductInput{
		Name:        req.Name,
		Description: req.Description,
		Price:       *req.Price,
		Stock:       *req.Stock,
		Category:    req.Category,
	})
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// @Summary Delete product
// @Tags products
// @Param id path string true "Product ID"
// @Success 204
// @Failure 404 {object} map[string]string
// @Router /products/{id} [delete]
func (s *Server) deleteProduct(c *gin.Context) {
	if err := s.catalog.DeleteProduct(c, c.Param("id")); err != nil {
		abortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Customer handlers

// @Summary Create customer
// @Tags customers
// @Accept json
// @Produce json
// @Param input body customerReq true "Customer"
// @Success 201 {object} domain.Customer
// @Failure 400 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /customers [post]
func (s *Server) createCustomer(c *gin.Context) {
	var req customerReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	cust, err := s.customers.Create(c, customerInput(req))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, cust)
}

// @Summary Get customer by id
// @Tags customers
// @Produce json
// @Param customerId path string true "Customer ID"
// @Success 200 {object} domain.Customer
// @Failure 404 {object} map[string]string
// @Router /customers/{customerId} [get]
func (s *Server) getCustomer(c *gin.Context) {
	cust, err := s.customers.Get(c, c.Param("customerId"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, cust)
}

// @Summary Update customer
// @Tags customers
// @Accept json
// @Produce json
// @Param customerId path string true "Customer ID"
// @Param input body customerReq true "Customer"
// @Success 200 {object} domain.Customer
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /customers/{customerId} [patch]
func (s *Server) updateCustomer(c *gin.Context) {
	var req customerReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	cust, err := s.customers.Update(c, c.Param("customerId"), customerInput(req))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, cust)
}

// @Summary Delete customer
// @Tags customers
// @Param customerId path string true "Customer ID"
// @Success 204
// @Failure 404 {object} map[string]string
// @Router /customers/{customerId} [delete]
func (s *Server) deleteCustomer(c *gin.Context) {
	if err := s.customers.Delete(c, c.Param("customerId")); err != nil {
		abortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// @Summary List customer's orders
// @Tags customers
// @Produce json
// @Param customerId path string true "Customer ID"
// @Param afterToken query string false "Continuation token"
// @Param pageSize query int false "Page size" default(10)
// @Success 200 {object} pagination.Page[domain.Order]
// @Failure 404 {object} map[string]string
// @Router /customers/{customerId}/orders [get]
func (s *Server) getCustomerOrders(c *gin.Context) {
	page, err := s.customers.Orders(c, c.Param("customerId"), intQuery(c, "pageSize", 10), c.Query("afterToken"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// Cart handlers

// @Summary Get or create the customer's cart
// @Tags carts
// @Produce json
// @Param customerId path string true "Customer ID"
// @Success 200 {object} domain.Order
// @Failure 404 {object} map[string]string
// @Router /customers/{customerId}/cart [post]
func (s *Server) createCart(c *gin.Context) {
	cart, err := s.carts.GetOrCreateCart(c, c.Param("customerId"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, cart)
}

// @Summary Get the customer's cart
// @Tags carts
// @Produce json
// @Param customerId path string true "Customer ID"
// @Success 200 {object} domain.Order
// @Failure 404 {object} map[string]string
// @Router /customers/{customerId}/cart [get]
func (s *Server) getCart(c *gin.Context) {
	cart, err := s.carts.GetOrCreateCart(c, c.Param("customerId"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, cart)
}

// @Summary Add an item to the customer's cart
// @Tags carts
// @Accept json
// @Produce json
// @Param customerId path string true "Customer ID"
// @Param input body addItemReq true "Item"
// @Success 200 {object} domain.Order
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /customers/{customerId}/cart/item [post]
func (s *Server) addItemToCart(c *gin.Context) {
	var req addItemReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	cart, err := s.carts.AddItem(c, c.Param("customerId"), req.ProductName, req.Quantity)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, cart)
}

// Order handlers

// @Summary Get order by id
// @Tags orders
// @Produce json
// @Param id path string true "Order ID"
// @Success 200 {object} domain.Order
// @Failure 404 {object} map[string]string
// @Router /orders/{id} [get]
func (s *Server) getOrder(c *gin.Context) {
	o, err := s.orders.Get(c, c.Param("id"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, o)
}

// @Summary Update order status and/or payment
// @Tags orders
// @Accept json
// @Produce json
// @Param id path string true "Order ID"
// @Param input body orderReq true "Order update"
// @Success 200 {object} domain.Order
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /orders/{id} [patch]
func (s *Server) updateOrder(c *gin.Context) {
	var req orderReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	upd := service.OrderUpdate{Payment: req.Payment}
	if req.Status != nil {
		status := domain.OrderStatus(*req.Status)
		upd.Status = &status
	}
	o, err := s.orders.Update(c, c.Param("id"), upd)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, o)
}

// helpers

func customerInput(req customerReq) service.CustomerInput {
	return service.CustomerInput{
		Name:  req.Name,
		Email: req.Email,
		Address: domain.Address{
			Street:     req.Address.Street,
			City:       req.Address.City,
			State:      req.Address.State,
			PostalCode: req.Address.PostalCode,
			Country:    req.Address.Country,
		},
	}
}

func intQuery(c *gin.Context, name string, def int) int {
	v := c.Query(name)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func int64Query(c *gin.Context, name string, def int64) int64 {
	v := c.Query(name)
	if v == "" {
		return def
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return def
	}
	return n
}

func abortWithError(c *gin.Context, err error) {
	c.JSON(mapErrorToStatus(err), gin.H{"error": err.Error()})
}

func mapErrorToStatus(err error) int {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrInvalidInput),
		errors.Is(err, service.ErrNoCategory),
		errors.Is(err, service.ErrNoProduct),
		errors.Is(err, service.ErrInvalidTransition),
		errors.Is(err, service.ErrPaymentLocked),
		errors.Is(err, service.ErrNotEnoughStock),
		errors.Is(err, service.ErrEmptyOrder),
		errors.Is(err, pagination.ErrBadToken):
		return http.StatusBadRequest
	case errors.Is(err, repository.ErrAlreadyExists),
		errors.Is(err, repository.ErrConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
