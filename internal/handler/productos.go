package handler

import (
	"net/http"

	"krakenstore/internal/apierror"
	"krakenstore/internal/dto"
	"krakenstore/internal/infra"
	"krakenstore/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ProductosHandler struct{ svc service.CatalogoService }

func NewProductosHandler(svc service.CatalogoService) *ProductosHandler {
	return &ProductosHandler{svc: svc}
}

// Listar godoc
// @Summary Catálogo completo de productos minoreo
// @Tags productos
// @Produce json
// @Success 200 {object} apierror.Envelope
// @Router /api/productos [get]
func (h *ProductosHandler) Listar(c *gin.Context) {
	productos, err := h.svc.ListarProductos(c.Request.Context())
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, apierror.OKList(len(productos), productos))
}

func (h *ProductosHandler) ListarMayoreo(c *gin.Context) {
	paquetes, err := h.svc.ListarPaquetesMayoreo(c.Request.Context())
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, apierror.OKList(len(paquetes), paquetes))
}

func (h *ProductosHandler) Obtener(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.Fail("ID inválido"))
		return
	}
	producto, err := h.svc.ObtenerProducto(c.Request.Context(), id)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, apierror.OK(producto))
}

func (h *ProductosHandler) ListarPorCategoria(c *gin.Context) {
	productos, err := h.svc.ListarPorCategoria(c.Request.Context(), c.Param("categoria"))
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, apierror.OKList(len(productos), productos))
}

func (h *ProductosHandler) ListarDestacados(c *gin.Context) {
	productos, err := h.svc.ListarDestacados(c.Request.Context())
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, apierror.OKList(len(productos), productos))
}

func (h *ProductosHandler) ActualizarStock(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.Fail("ID inválido"))
		return
	}
	var req dto.ActualizarStockRequest
	if !bindAndValidate(c, &req) {
		return
	}
	if err := h.svc.ActualizarStock(c.Request.Context(), id, req.Stock); err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, apierror.OKMessage("Stock actualizado correctamente", gin.H{"id": id, "stock": req.Stock}))
}

func (h *ProductosHandler) ActualizarPrecio(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.Fail("ID inválido"))
		return
	}
	var req dto.ActualizarPrecioRequest
	if !bindAndValidate(c, &req) {
		return
	}
	if err := h.svc.ActualizarPrecio(c.Request.Context(), id, req.Precio); err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, apierror.OKMessage("Precio actualizado correctamente", gin.H{"id": id, "precio": req.Precio}))
}

func (h *ProductosHandler) ToggleDestacado(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.Fail("ID inválido"))
		return
	}
	var req dto.ToggleDestacadoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	if err := h.svc.ToggleDestacado(c.Request.Context(), id, req.Destacado); err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, apierror.OKMessage("Producto actualizado", gin.H{"id": id, "destacado": req.Destacado}))
}

// Crear handles the multipart form of the admin panel: product fields plus an
// optional "imagen" file part.
func (h *ProductosHandler) Crear(c *gin.Context) {
	var req dto.CrearProductoRequest
	if !bindFormAndValidate(c, &req) {
		return
	}

	var upload *infra.ImageUpload
	if fh, err := c.FormFile("imagen"); err == nil && fh != nil {
		f, err := fh.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, apierror.Fail("No se pudo leer la imagen"))
			return
		}
		defer f.Close()
		upload = &infra.ImageUpload{
			Filename:    fh.Filename,
			ContentType: fh.Header.Get("Content-Type"),
			Size:        fh.Size,
			Reader:      f,
		}
	}

	producto, err := h.svc.CrearProducto(c.Request.Context(), req, upload)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, apierror.OKMessage("Producto creado correctamente", producto))
}
