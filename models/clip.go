package models

// ClipDoc is one input or output document of the clip-as-service HTTP protocol.
// Inputs set Text or URI (a data URI for images); outputs carry Embedding.
type ClipDoc struct {
	Text      string    `json:"text,omitempty"`
	URI       string    `json:"uri,omitempty"`
	Embedding []float32 `json:"embedding,omitempty"`
}

// ClipRequest is the body posted to the CLIP server.
type ClipRequest struct {
	Data         []ClipDoc `json:"data"`
	ExecEndpoint string    `json:"execEndpoint"`
}

// ClipResponse is the CLIP server reply.
type ClipResponse struct {
	Data []ClipDoc `json:"data"`
}
