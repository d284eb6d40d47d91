package vehicle

import (
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

// Handler 车辆及车辆类别的 HTTP CRUD。
type Handler struct {
	repo  *Repo
	types *TypeRepo
}

func NewHandler(db *gorm.DB) *Handler {
	return &Handler{repo: NewRepo(db), types: NewTypeRepo(db)}
}

// Register 挂载路由。
func (h *Handler) Register(e *echo.Echo) {
	e.GET("/vehicles", h.List)
	e.GET("/vehicles/:id", h.Get)
	e.POST("/vehicles", h.Create)
	e.PUT("/vehicles/:id", h.Update)
	e.PATCH("/vehicles/:id", h.PatchAvailable)
	e.DELETE("/vehicles/:id", h.Delete)
	e.POST("/vehicles/:id/available/decrement", h.DecrementAvailable)
	e.GET("/vehicleTypes", h.ListTypes)
}

// upsertPayload POST/PUT 共用的请求体。
type upsertPayload struct {
	Brand         string `json:"brand"`
	Model         string `json:"model"`
	Year          string `json:"year"`
	Fuel          string `json:"fuel"`
	Seats         string `json:"seats"`
	PricePerDay   string `json:"price_per_day"`
	Available     string `json:"available"`
	VehicleTypeID string `json:"vehicle_type_id"`
}

func (p *upsertPayload) apply(v *Vehicle) {
	v.Brand = strings.TrimSpace(p.Brand)
	v.Model = strings.TrimSpace(p.Model)
	v.Year = strings.TrimSpace(p.Year)
	v.Fuel = strings.TrimSpace(p.Fuel)
	v.Seats = strings.TrimSpace(p.Seats)
	v.PricePerDay = strings.TrimSpace(p.PricePerDay)
	v.Available = strings.TrimSpace(p.Available)
	v.VehicleTypeID = strings.TrimSpace(p.VehicleTypeID)
}

func (h *Handler) List(c echo.Context) error {
	vehicles, err := h.repo.List(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, vehicles)
}

func (h *Handler) Get(c echo.Context) error {
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "id required")
	}
	v, err := h.repo.FindByID(c.Request().Context(), id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "vehicle not found")
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, v)
}

func (h *Handler) Create(c echo.Context) error {
	var p upsertPayload
	if err := c.Bind(&p); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if strings.TrimSpace(p.Brand) == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "brand required")
	}

	v := &Vehicle{ID: uuid.NewString()}
	p.apply(v)
	if err := h.repo.Create(c.Request().Context(), v); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusCreated, v)
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

	v, err := h.repo.FindByID(c.Request().Context(), id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "vehicle not found")
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	p.apply(v)
	if err := h.repo.Update(c.Request().Context(), v); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, v)
}

// PatchAvailable 对应 PATCH /vehicles/{id}，只接受 {available} 的部分更新。
func (h *Handler) PatchAvailable(c echo.Context) error {
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "id required")
	}
	var p struct {
		Available string `json:"available"`
	}
	if err := c.Bind(&p); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if strings.TrimSpace(p.Available) == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "available required")
	}

	v, err := h.repo.PatchAvailable(c.Request().Context(), id, strings.TrimSpace(p.Available))
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "vehicle not found")
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, v)
}

func (h *Handler) Delete(c echo.Context) error {
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "id required")
	}
	err := h.repo.Delete(c.Request().Context(), id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "vehicle not found")
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}

// DecrementAvailable 服务端原子递减：available > 0 才会成功，
// 否则返回 409，供预订方拒绝超卖。
func (h *Handler) DecrementAvailable(c echo.Context) error {
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "id required")
	}
	v, err := h.repo.DecrementAvailableIfPositive(c.Request().Context(), id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "vehicle not found")
	}
	if errors.Is(err, ErrNoAvailability) {
		return echo.NewHTTPError(http.StatusConflict, "no availability left")
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, v)
}

func (h *Handler) ListTypes(c echo.Context) error {
	types, err := h.types.List(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, types)
}
