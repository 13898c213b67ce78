package render

import (
	"bytes"
	"fmt"
	"io"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// MergePDFs concatenates PDF documents in the given order.
func MergePDFs(docs ...[]byte) ([]byte, error) {
	switch len(docs) {
	case 0:
		return nil, fmt.Errorf("render.MergePDFs: no documents")
	case 1:
		return docs[0], nil
	}

	readers := make([]io.ReadSeeker, len(docs))
	for i, d := range docs {
		readers[i] = bytes.NewReader(d)
	}

	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	var out bytes.Buffer
	if err := api.MergeRaw(readers, &out, false, conf); err != nil {
		return nil, fmt.Errorf("render.MergePDFs: %w", err)
	}
	return out.Bytes(), nil
}
