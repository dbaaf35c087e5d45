package purchasing

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/jhoicas/Reposicion-api/internal/domain/repository"
)

// Verificar en tiempo de compilación que Client implementa Purchasing.
var _ repository.Purchasing = (*Client)(nil)

// Client adaptador HTTP del colaborador de compras. Llama al servicio externo
// de purchasing para crear órdenes de compra borrador. Usa únicamente net/http:
// el contrato es un POST JSON simple y el caller ya acota el tiempo con
// context.WithTimeout.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient construye el adaptador. timeout es el límite de red del cliente;
// el orquestador además impone su propio deadline por llamada.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

type draftPORequest struct {
	VendorID    string          `json:"vendor_id"`
	ItemID      string          `json:"item_id"`
	WarehouseID string          `json:"warehouse_id"`
	Quantity    decimal.Decimal `json:"quantity"`
}

type draftPOResponse struct {
	PurchaseOrderID string `json:"purchase_order_id"`
	Error           string `json:"error"`
}

// CreateDraftPurchaseOrder envía la solicitud de orden de compra borrador y
// devuelve el id asignado por el servicio de compras. Cualquier falla (red,
// timeout, HTTP != 2xx, respuesta sin id) se reporta como error: nunca se
// asume éxito parcial.
func (c *Client) CreateDraftPurchaseOrder(ctx context.Context, req repository.PurchaseOrderRequest) (string, error) {
	body, err := json.Marshal(draftPORequest{
		VendorID:    req.VendorID,
		ItemID:      req.ItemID,
		WarehouseID: req.WarehouseID,
		Quantity:    req.Quantity,
	})
	if err != nil {
		return "", fmt.Errorf("purchasing: serializar request: %w", err)
	}

	url := c.baseURL + "/api/purchase-orders/draft"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("purchasing: crear HTTP request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		if ctx.Err() != nil {
			return "", fmt.Errorf("purchasing: timeout o cancelación: %w", ctx.Err())
		}
		return "", fmt.Errorf("purchasing: llamada HTTP fallida: %w", err)
	}
	defer resp.Body.Close()

	rawBody, err := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
	if err != nil {
		return "", fmt.Errorf("purchasing: leer respuesta: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var errResp draftPOResponse
		if jsonErr := json.Unmarshal(rawBody, &errResp); jsonErr == nil && errResp.Error != "" {
			return "", fmt.Errorf("purchasing: HTTP %d: %s", resp.StatusCode, errResp.Error)
		}
		return "", fmt.Errorf("purchasing: HTTP %d", resp.StatusCode)
	}

	var poResp draftPOResponse
	if err := json.Unmarshal(rawBody, &poResp); err != nil {
		return "", fmt.Errorf("purchasing: deserializar respuesta: %w", err)
	}
	if poResp.PurchaseOrderID == "" {
		return "", fmt.Errorf("purchasing: respuesta sin purchase_order_id")
	}
	return poResp.PurchaseOrderID, nil
}
