package handler

import (
	"net/http"

	"krakenstore/internal/apierror"
	"krakenstore/internal/dto"
	"krakenstore/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type PedidosHandler struct{ svc service.PedidoService }

func NewPedidosHandler(svc service.PedidoService) *PedidosHandler {
	return &PedidosHandler{svc: svc}
}

// Crear godoc
// @Summary Checkout — crea un pedido minoreo o mayoreo
// @Tags pedidos
// @Accept json
// @Produce json
// @Param body body dto.CrearPedidoRequest true "Pedido"
// @Success 201 {object} apierror.Envelope
// @Failure 400 {object} apierror.Envelope
// @Router /api/pedidos [post]
func (h *PedidosHandler) Crear(c *gin.Context) {
	var req dto.CrearPedidoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CrearPedido(c.Request.Context(), req)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, apierror.OKMessage("Pedido creado correctamente", resp))
}

func (h *PedidosHandler) Listar(c *gin.Context) {
	pedidos, err := h.svc.ListarPedidos(c.Request.Context())
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, apierror.OKList(len(pedidos), pedidos))
}

func (h *PedidosHandler) Obtener(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.Fail("ID inválido"))
		return
	}
	pedido, err := h.svc.ObtenerPedido(c.Request.Context(), id)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, apierror.OK(pedido))
}

func (h *PedidosHandler) Actualizar(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.Fail("ID inválido"))
		return
	}
	var req dto.ActualizarPedidoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	if err := h.svc.ActualizarPedido(c.Request.Context(), id, req); err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, apierror.OKMessage("Pedido actualizado correctamente", gin.H{"id": id}))
}

func (h *PedidosHandler) CambiarEstado(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.Fail("ID inválido"))
		return
	}
	var req dto.CambiarEstadoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	if err := h.svc.CambiarEstado(c.Request.Context(), id, req.Estado); err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, apierror.OKMessage("Estado actualizado correctamente", gin.H{"id": id, "estado": req.Estado}))
}
