package httpserver

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"retail-customers/internal/domain"
)

type customerRequest struct {
	Name  string `json:"name" binding:"max=255"`
	Email string `json:"email" binding:"max=255"`
	DNI   string `json:"dni"`
	Age   *int   `json:"age"`
}

func (r customerRequest) toDomain() domain.Customer {
	return domain.Customer{
		Name:  r.Name,
		Email: r.Email,
		DNI:   r.DNI,
		Age:   r.Age,
	}
}

type customerResponse struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	DNI   string `json:"dni"`
	Age   *int   `json:"age"`
}

func toCustomerResponse(c domain.Customer) customerResponse {
	out := customerResponse{
		Name:  c.Name,
		Email: c.Email,
		DNI:   c.DNI,
		Age:   c.Age,
	}
	if c.ID != nil {
		out.ID = *c.ID
	}
	return out
}

type customerHandler struct {
	svc CustomerService
}

func (h *customerHandler) create(c *gin.Context) {
	var req customerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, bindingMessage(err))
		return
	}
	created, err := h.svc.CreateCustomer(c.Request.Context(), req.toDomain())
	if err != nil {
		respondError(c, err)
		return
	}
	if created.ID != nil {
		c.Header("Location", "/customers/"+strconv.FormatInt(*created.ID, 10))
	}
	c.JSON(http.StatusCreated, toCustomerResponse(*created))
}

func (h *customerHandler) get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	found, err := h.svc.GetCustomerByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toCustomerResponse(*found))
}

func (h *customerHandler) list(c *gin.Context) {
	all, err := h.svc.GetAllCustomers(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	out := make([]customerResponse, 0, len(all))
	for _, cust := range all {
		out = append(out, toCustomerResponse(cust))
	}
	c.JSON(http.StatusOK, out)
}

func (h *customerHandler) update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req customerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, bindingMessage(err))
		return
	}
	updated, err := h.svc.UpdateCustomer(c.Request.Context(), id, req.toDomain())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toCustomerResponse(*updated))
}

func (h *customerHandler) delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.svc.DeleteCustomer(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		writeError(c, http.StatusBadRequest, "customer id must be a positive integer")
		return 0, false
	}
	return id, true
}
