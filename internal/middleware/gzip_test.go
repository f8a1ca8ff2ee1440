package middleware

import (
	"bytes"
	"compress/gzip"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func gzipBody(t *testing.T, payload string) io.Reader {
	t.Helper()

	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	if _, err := gz.Write([]byte(payload)); err != nil {
		t.Fatalf("write gzip: %v", err)
	}
	if err := gz.Close(); err != nil {
		t.Fatalf("close gzip: %v", err)
	}
	return &buf
}

func readBody(t *testing.T, res *http.Response) []byte {
	t.Helper()

	var reader io.Reader = res.Body
	if res.Header.Get("Content-Encoding") == "gzip" {
		gr, err := gzip.NewReader(res.Body)
		if err != nil {
			t.Fatalf("new gzip reader: %v", err)
		}
		defer gr.Close()
		reader = gr
	}

	body, err := io.ReadAll(reader)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return body
}

// addItemHandler имитирует добавление товара в корзину и возвращает корзину.
func addItemHandler(t *testing.T, got *int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			ProductID int `json:"productId"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		*got = req.ProductID

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"lines":[{"id":1,"title":"Backpack","price":109.95,"quantity":1}],"total":109.95,"totalDisplay":"109.95","itemCount":1}`))
	}
}

func TestGzipMiddleware(t *testing.T) {
	type want struct {
		statusCode      int
		contentEncoding string
		productID       int
	}

	tests := []struct {
		name           string
		body           string
		gzipRequest    bool
		acceptEncoding string
		want           want
	}{
		{
			name:           "gzip request, client accepts gzip",
			body:           `{"productId":1}`,
			gzipRequest:    true,
			acceptEncoding: "gzip",
			want:           want{statusCode: http.StatusOK, contentEncoding: "gzip", productID: 1},
		},
		{
			name:           "plain request, client accepts gzip",
			body:           `{"productId":7}`,
			acceptEncoding: "gzip",
			want:           want{statusCode: http.StatusOK, contentEncoding: "gzip", productID: 7},
		},
		{
			name:        "gzip request, client does not accept gzip",
			body:        `{"productId":3}`,
			gzipRequest: true,
			want:        want{statusCode: http.StatusOK, productID: 3},
		},
		{
			name: "plain request and response",
			body: `{"productId":20}`,
			want: want{statusCode: http.StatusOK, productID: 20},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var requestBody io.Reader = strings.NewReader(tt.body)
			if tt.gzipRequest {
				requestBody = gzipBody(t, tt.body)
			}

			req := httptest.NewRequest(http.MethodPost, "/api/cart/items", requestBody)
			req.Header.Set("Content-Type", "application/json")
			if tt.gzipRequest {
				req.Header.Set("Content-Encoding", "gzip")
			}
			if tt.acceptEncoding != "" {
				req.Header.Set("Accept-Encoding", tt.acceptEncoding)
			}

			var productID int
			w := httptest.NewRecorder()
			GzipMiddleware(addItemHandler(t, &productID)).ServeHTTP(w, req)

			res := w.Result()
			defer res.Body.Close()

			if res.StatusCode != tt.want.statusCode {
				t.Fatalf("status: got %d want %d", res.StatusCode, tt.want.statusCode)
			}
			if productID != tt.want.productID {
				t.Fatalf("productId reaching handler: got %d want %d", productID, tt.want.productID)
			}
			if ce := res.Header.Get("Content-Encoding"); ce != tt.want.contentEncoding {
				t.Fatalf("content-encoding: got %q want %q", ce, tt.want.contentEncoding)
			}
			if ct := res.Header.Get("Content-Type"); ct != "application/json" {
				t.Fatalf("content-type: got %q want application/json", ct)
			}

			var cart struct {
				ItemCount    int    `json:"itemCount"`
				TotalDisplay string `json:"totalDisplay"`
			}
			if err := json.Unmarshal(readBody(t, res), &cart); err != nil {
				t.Fatalf("decode cart: %v", err)
			}
			if cart.ItemCount != 1 || cart.TotalDisplay != "109.95" {
				t.Fatalf("unexpected cart: %+v", cart)
			}
		})
	}
}

func TestGzipMiddleware_LoginBody(t *testing.T) {
	var got struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}

	h := GzipMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if enc := r.Header.Get("Content-Encoding"); enc != "" {
			t.Errorf("Content-Encoding must be removed after decoding, got %q", enc)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode credentials: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodPost, "/api/session/login", gzipBody(t, `{"username":"mor_2314","password":"83r5^_"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Content-Encoding", "gzip")

	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
	if got.Username != "mor_2314" || got.Password != "83r5^_" {
		t.Fatalf("credentials = %+v", got)
	}
}

func TestGzipMiddleware_MalformedBody(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/cart/items", strings.NewReader(`{"productId":1}`))
	req.Header.Set("Content-Encoding", "gzip")

	w := httptest.NewRecorder()
	GzipMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatalf("next handler should not be called")
	})).ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}
}
