// Package rest implementa los puertos de API sobre el backend REST remoto.
// Un único Gateway concentra la comunicación saliente: adjunta el token de la
// sesión como credencial bearer, decodifica el envelope uniforme y ante un
// 401 dispara el desalojo global de la sesión.
package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/storefront-core/internal/domain"
	"github.com/jhoicas/storefront-core/pkg/logger"
)

// Config parámetros del gateway.
type Config struct {
	BaseURL string        // ej. http://localhost:8080/api
	Timeout time.Duration // timeout fijo por petición; al vencer, la operación falla como cualquier otro rechazo
}

// TokenSource lectura del token vigente; solo el session store lo muta.
type TokenSource func() string

// Gateway punto único de salida HTTP hacia el backend.
type Gateway struct {
	baseURL        string
	client         *http.Client
	token          TokenSource
	onUnauthorized func()
	log            *logger.Logger
}

// NewGateway construye el gateway. token puede ser nil (cliente anónimo).
func NewGateway(cfg Config, token TokenSource, log *logger.Logger) *Gateway {
	if token == nil {
		token = func() string { return "" }
	}
	return &Gateway{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		client:  &http.Client{Timeout: cfg.Timeout},
		token:   token,
		log:     log,
	}
}

// SetOnUnauthorized registra el hook de desalojo de sesión. Se invoca ante un
// 401 solo si la petición llevaba token: un 401 sin credencial no puede
// desalojar nada y dispararlo en bucle no tendría fin.
func (g *Gateway) SetOnUnauthorized(fn func()) {
	g.onUnauthorized = fn
}

// envelope sobre uniforme de todas las respuestas del backend.
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
}

// do ejecuta una petición JSON y deserializa envelope.Data en out (si out no
// es nil). Errores de transporte/timeout envuelven domain.ErrUnavailable; los
// rechazos HTTP llegan como *domain.RemoteError con el mensaje del servidor.
func (g *Gateway) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("serializar petición: %w", err)
		}
		reader = bytes.NewReader(raw)
	}

	endpoint := g.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("construir petición: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())

	tok := g.token()
	if tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		g.log.Debug().Err(err).Str("method", method).Str("path", path).Msg("fallo de transporte")
		return fmt.Errorf("%w: %v", domain.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: leer respuesta: %v", domain.ErrUnavailable, err)
	}

	var env envelope
	if len(raw) > 0 {
		// Un cuerpo no-JSON (proxy caído, HTML de error) se trata como
		// envelope vacío: el status HTTP decide.
		_ = json.Unmarshal(raw, &env)
	}

	if resp.StatusCode == http.StatusUnauthorized {
		if tok != "" && g.onUnauthorized != nil {
			g.onUnauthorized()
		}
		return &domain.RemoteError{Status: resp.StatusCode, Message: env.Message}
	}
	if resp.StatusCode >= 400 || (len(raw) > 0 && !env.Success) {
		g.log.Debug().Int("status", resp.StatusCode).Str("path", path).Str("message", env.Message).Msg("rechazo del servidor")
		return &domain.RemoteError{Status: resp.StatusCode, Message: env.Message}
	}

	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("deserializar respuesta de %s: %w", path, err)
		}
	}
	return nil
}

func (g *Gateway) get(ctx context.Context, path string, out any) error {
	return g.do(ctx, http.MethodGet, path, nil, nil, out)
}

func (g *Gateway) post(ctx context.Context, path string, body, out any) error {
	return g.do(ctx, http.MethodPost, path, nil, body, out)
}

func (g *Gateway) put(ctx context.Context, path string, query url.Values, body, out any) error {
	return g.do(ctx, http.MethodPut, path, query, body, out)
}

func (g *Gateway) delete(ctx context.Context, path string, out any) error {
	return g.do(ctx, http.MethodDelete, path, nil, nil, out)
}
