package router

import (
	"errors"
	"testing"

	"github.com/mosq-go/mosq"
)

func TestRequestParam(t *testing.T) {
	req := &Request{params: map[string]string{"device": "lamp-1"}}

	if got := req.Param("device"); got != "lamp-1" {
		t.Errorf("Param(device) = %q, want %q", got, "lamp-1")
	}
	if got := req.Param("missing"); got != "" {
		t.Errorf("Param(missing) = %q, want empty", got)
	}
}

func TestRequestParamNoCaptures(t *testing.T) {
	req := &Request{}
	if got := req.Param("anything"); got != "" {
		t.Errorf("Param() = %q on capture-free request, want empty", got)
	}
}

func TestRequestBindParams(t *testing.T) {
	req := &Request{params: map[string]string{"name": "foo", "id": "978"}}

	var got struct {
		Name string `json:"name"`
		ID   int    `json:"id,string"`
	}
	if err := req.BindParams(&got); err != nil {
		t.Fatalf("BindParams() error = %v", err)
	}
	if got.Name != "foo" {
		t.Errorf("Name = %q, want %q", got.Name, "foo")
	}
	if got.ID != 978 {
		t.Errorf("ID = %d, want 978", got.ID)
	}
}

func TestRequestBindParamsTypeMismatch(t *testing.T) {
	req := &Request{params: map[string]string{"id": "not-a-number"}}

	var got struct {
		ID int `json:"id,string"`
	}
	if err := req.BindParams(&got); err == nil {
		t.Error("BindParams() expected error for non-numeric capture")
	}
}

func TestRequestBindJSON(t *testing.T) {
	req := &Request{Message: mosq.Message{Payload: []byte(`{"level": 80, "ramp": true}`)}}

	var got struct {
		Level int  `json:"level"`
		Ramp  bool `json:"ramp"`
	}
	if err := req.BindJSON(&got); err != nil {
		t.Fatalf("BindJSON() error = %v", err)
	}
	if got.Level != 80 || !got.Ramp {
		t.Errorf("BindJSON() = %+v, want level=80 ramp=true", got)
	}
}

func TestRequestBindJSONMalformed(t *testing.T) {
	req := &Request{Message: mosq.Message{Payload: []byte(`{"level":`)}}

	var got map[string]any
	if err := req.BindJSON(&got); err == nil {
		t.Error("BindJSON() expected error for malformed payload")
	}
}

func TestRequestText(t *testing.T) {
	req := &Request{Message: mosq.Message{Payload: []byte("woot")}}

	got, err := req.Text()
	if err != nil {
		t.Fatalf("Text() error = %v", err)
	}
	if got != "woot" {
		t.Errorf("Text() = %q, want %q", got, "woot")
	}
}

func TestRequestTextInvalidUTF8(t *testing.T) {
	req := &Request{Message: mosq.Message{Payload: []byte{0xff, 0xfe}}}

	if _, err := req.Text(); !errors.Is(err, ErrPayloadNotUTF8) {
		t.Errorf("Text() error = %v, want ErrPayloadNotUTF8", err)
	}
}
