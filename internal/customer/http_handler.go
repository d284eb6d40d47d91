package customer

import (
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

// Handler 客户档案的 HTTP CRUD。
type Handler struct {
	repo *Repo
}

func NewHandler(db *gorm.DB) *Handler {
	return &Handler{repo: NewRepo(db)}
}

// Register 挂载路由。
func (h *Handler) Register(e *echo.Echo) {
	e.GET("/customers", h.List)
	e.GET("/customers/:id", h.Get)
	e.POST("/customers", h.Create)
	e.PUT("/customers/:id", h.Update)
	e.DELETE("/customers/:id", h.Delete)
}

type upsertPayload struct {
	FullName string `json:"fullname"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
}

func (h *Handler) List(c echo.Context) error {
	customers, err := h.repo.List(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, customers)
}

func (h *Handler) Get(c echo.Context) error {
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "id required")
	}
	cust, err := h.repo.FindByID(c.Request().Context(), id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "customer not found")
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, cust)
}

func (h *Handler) Create(c echo.Context) error {
	var p upsertPayload
	if err := c.Bind(&p); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if strings.TrimSpace(p.FullName) == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "fullname required")
	}

	cust := &Customer{
		ID:       uuid.NewString(),
		FullName: strings.TrimSpace(p.FullName),
		Email:    strings.TrimSpace(p.Email),
		Phone:    strings.TrimSpace(p.Phone),
	}
	if err := h.repo.Create(c.Request().Context(), cust); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusCreated, cust)
}

func (h *Handler) Update(c echo.Context) error {
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "id required")
	}
	var p upsertPayload
	if err := c.Bind(&p); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	cust, err := h.repo.FindByID(c.Request().Context(), id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "customer not found")
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	cust.FullName = strings.TrimSpace(p.FullName)
	cust.Email = strings.TrimSpace(p.Email)
	cust.Phone = strings.TrimSpace(p.Phone)
	if err := h.repo.Update(c.Request().Context(), cust); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, cust)
}

func (h *Handler) Delete(c echo.Context) error {
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "id required")
	}
	err := h.repo.Delete(c.Request().Context(), id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "customer not found")
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}
