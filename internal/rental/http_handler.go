package rental

import (
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

// Handler 租赁记录的 HTTP 接口。数据服务不做业务校验，
// 引用一致性（客户/车辆是否存在、日期是否合理）由预订方负责。
type Handler struct {
	repo *Repo
}

func NewHandler(db *gorm.DB) *Handler {
	return &Handler{repo: NewRepo(db)}
}

// Register 挂载路由。
func (h *Handler) Register(e *echo.Echo) {
	e.POST("/rental-events", h.Create)
	e.GET("/rental-events", h.List)
	e.GET("/rental-events/:id", h.Get)
}

type createPayload struct {
	StartDate  string `json:"start_date"`
	EndDate    string `json:"end_date"`
	CustomerID string `json:"customer_id"`
	VehicleID  string `json:"vehicle_id"`
}

func (h *Handler) Create(c echo.Context) error {
	var p createPayload
	if err := c.Bind(&p); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if strings.TrimSpace(p.CustomerID) == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "customer_id required")
	}
	if strings.TrimSpace(p.VehicleID) == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "vehicle_id required")
	}

	ev := &RentalEvent{
		ID:         uuid.NewString(),
		StartDate:  strings.TrimSpace(p.StartDate),
		EndDate:    strings.TrimSpace(p.EndDate),
		CustomerID: strings.TrimSpace(p.CustomerID),
		VehicleID:  strings.TrimSpace(p.VehicleID),
	}
	if err := h.repo.Create(c.Request().Context(), ev); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusCreated, ev)
}

func (h *Handler) List(c echo.Context) error {
	events, err := h.repo.List(c.Request().Context(),
		strings.TrimSpace(c.QueryParam("vehicle_id")),
		strings.TrimSpace(c.QueryParam("customer_id")))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, events)
}

func (h *Handler) Get(c echo.Context) error {
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "id required")
	}
	ev, err := h.repo.FindByID(c.Request().Context(), id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "rental event not found")
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, ev)
}
