package tfeclient

import (
	"fmt"
	"net/http"
	"testing"
)

func testServerResHandler(t *testing.T, code int, resBody string) func(w http.ResponseWriter, r *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/vnd.api+json")
		w.WriteHeader(code)

		_, err := fmt.Fprint(w, resBody)
		if err != nil {
			t.Fatal(err)
		}
	}
}

func newTestClient(t *testing.T, serverURL string) *TFEClient {
	client, err := New(serverURL, "12345")
	if err != nil {
		t.Fatal(err)
	}

	return client
}
