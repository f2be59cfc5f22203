package worker

// confirmacion_worker.go
// Processes order confirmation jobs from QueueConfirmacion.
// Re-reads the committed order, renders the summary PDF and emails it to
// the customer with exponential backoff. Jobs that exhaust their retries
// go to the DLQ.

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"krakenstore/internal/infra"
	"krakenstore/internal/repository"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const maxConfirmacionAttempts = 3

// ConfirmacionWorker processes confirmation jobs from QueueConfirmacion.
type ConfirmacionWorker struct {
	pedidos        repository.PedidoRepository
	mailer         *infra.Mailer
	rdb            *redis.Client
	pdfStoragePath string
}

// NewConfirmacionWorker wires all dependencies for the confirmation worker.
func NewConfirmacionWorker(
	pedidos repository.PedidoRepository,
	mailer *infra.Mailer,
	rdb *redis.Client,
	pdfStoragePath string,
) *ConfirmacionWorker {
	return &ConfirmacionWorker{
		pedidos:        pedidos,
		mailer:         mailer,
		rdb:            rdb,
		pdfStoragePath: pdfStoragePath,
	}
}

// Process handles a single confirmation job:
//  1. Parse ConfirmacionPayload from the job envelope
//  2. Fetch the committed Pedido with its lines
//  3. Generate the summary PDF
//  4. Send the email with exponential backoff (max 3 attempts)
//  5. Move to DLQ when all attempts fail
func (w *ConfirmacionWorker) Process(ctx context.Context, raw json.RawMessage) {
	var payload ConfirmacionPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("confirmacion_worker: invalid payload")
		return
	}
	if payload.Email == "" {
		log.Warn().Str("pedido", payload.NumeroPedido).Msg("confirmacion_worker: empty email — skipping")
		return
	}

	pedidoID, err := uuid.Parse(payload.PedidoID)
	if err != nil {
		log.Error().Str("pedido_id", payload.PedidoID).Msg("confirmacion_worker: invalid pedido_id")
		return
	}

	pedido, err := w.pedidos.FindByID(ctx, pedidoID)
	if err != nil {
		log.Error().Err(err).Str("pedido_id", payload.PedidoID).Msg("confirmacion_worker: pedido not found")
		return
	}
	lineas, err := w.pedidos.FindLineas(ctx, pedidoID)
	if err != nil {
		log.Error().Err(err).Str("pedido_id", payload.PedidoID).Msg("confirmacion_worker: failed to load lines")
		return
	}

	resumen := &infra.PedidoResumen{
		NumeroPedido: pedido.NumeroPedido,
		Fecha:        pedido.CreatedAt,
		Cliente:      pedido.ClienteNombre,
		Tipo:         pedido.Tipo,
		Total:        pedido.Total,
	}
	for _, l := range lineas {
		nombre := "Producto"
		if l.Nombre != nil {
			nombre = *l.Nombre
		}
		resumen.Lineas = append(resumen.Lineas, infra.LineaResumen{
			Nombre:         nombre,
			Cantidad:       l.Cantidad,
			PrecioUnitario: l.PrecioUnitario,
		})
	}

	pdfPath, pdfErr := infra.GeneratePedidoPDF(resumen, w.pdfStoragePath)
	if pdfErr != nil {
		// The email still goes out without the attachment.
		log.Warn().Err(pdfErr).Str("pedido", pedido.NumeroPedido).Msg("confirmacion_worker: PDF generation failed")
		pdfPath = ""
	}

	subject := fmt.Sprintf("Kraken Store — Pedido %s confirmado", pedido.NumeroPedido)
	body := fmt.Sprintf(
		"¡Gracias por tu compra!\n\nTu pedido %s fue registrado correctamente.\nTotal: $%s\n\nTe avisaremos cuando esté en camino.",
		pedido.NumeroPedido, pedido.Total.StringFixed(2))

	sendErr := withRetry(ctx, maxConfirmacionAttempts, func(attempt int) error {
		if err := w.mailer.SendConfirmacion(payload.Email, subject, body, pdfPath); err != nil {
			log.Warn().
				Err(err).
				Int("attempt", attempt+1).
				Str("pedido", pedido.NumeroPedido).
				Msg("confirmacion_worker: send attempt failed, retrying")
			return err
		}
		return nil
	})

	if sendErr != nil {
		log.Error().Err(sendErr).Str("pedido", pedido.NumeroPedido).Msg("confirmacion_worker: all send attempts failed")
		SendToDLQ(ctx, w.rdb, QueueConfirmacion, "confirmacion", raw,
			fmt.Sprintf("max attempts (%d) exceeded: %v", maxConfirmacionAttempts, sendErr),
			maxConfirmacionAttempts)
		return
	}

	log.Info().
		Str("pedido", pedido.NumeroPedido).
		Str("email", payload.Email).
		Msg("confirmacion_worker: confirmation sent")
}

// withRetry calls fn up to maxAttempts times with exponential backoff.
// Backoff schedule: attempt 1 = immediate, 2 = 1s, 3 = 2s.
// Returns nil if any attempt succeeds; last error otherwise.
func withRetry(ctx context.Context, maxAttempts int, fn func(attempt int) error) error {
	var lastErr error
	for i := 0; i < maxAttempts; i++ {
		if i > 0 {
			wait := time.Duration(1<<uint(i-1)) * time.Second
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(wait):
			}
		}
		if err := fn(i); err != nil {
			lastErr = err
			continue
		}
		return nil
	}
	return lastErr
}
