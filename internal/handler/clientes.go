package handler

import (
	"net/http"

	"krakenstore/internal/apierror"
	"krakenstore/internal/dto"
	"krakenstore/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ClientesHandler struct{ svc service.ClienteService }

func NewClientesHandler(svc service.ClienteService) *ClientesHandler {
	return &ClientesHandler{svc: svc}
}

func (h *ClientesHandler) Registrar(c *gin.Context) {
	var req dto.RegistrarClienteRequest
	if !bindAndValidate(c, &req) {
		return
	}
	cliente, err := h.svc.Registrar(c.Request.Context(), req)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, apierror.OKMessage("Cuenta creada correctamente", cliente))
}

func (h *ClientesHandler) Login(c *gin.Context) {
	var req dto.LoginClienteRequest
	if !bindAndValidate(c, &req) {
		return
	}
	cliente, err := h.svc.Login(c.Request.Context(), req)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, apierror.OKMessage("Bienvenido de nuevo", cliente))
}

func (h *ClientesHandler) Obtener(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.Fail("ID inválido"))
		return
	}
	cliente, err := h.svc.ObtenerPerfil(c.Request.Context(), id)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, apierror.OK(cliente))
}

func (h *ClientesHandler) Actualizar(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.Fail("ID inválido"))
		return
	}
	var req dto.ActualizarPerfilRequest
	if !bindAndValidate(c, &req) {
		return
	}
	cliente, err := h.svc.ActualizarPerfil(c.Request.Context(), id, req)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, apierror.OKMessage("Perfil actualizado correctamente", cliente))
}

func (h *ClientesHandler) ListarPedidos(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.Fail("ID inválido"))
		return
	}
	pedidos, err := h.svc.ListarPedidosCliente(c.Request.Context(), id)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, apierror.OKList(len(pedidos), pedidos))
}

// Listar is the admin listing with per-customer order stats.
func (h *ClientesHandler) Listar(c *gin.Context) {
	clientes, err := h.svc.ListarClientes(c.Request.Context())
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, apierror.OKList(len(clientes), clientes))
}
