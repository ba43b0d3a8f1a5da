package importer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateStructureAcceptsTemplateHeader(t *testing.T) {
	svc := newTestService()
	assert.Empty(t, svc.ValidateStructure(header()))
}

func TestValidateStructureMissingProductID(t *testing.T) {
	svc := newTestService()
	h := header()
	h[2] = "  "

	msgs := svc.ValidateStructure(h)

	require.Len(t, msgs, 1)
	assert.Contains(t, msgs[0], "PRODUCTO_ID")
	assert.Contains(t, msgs[0], "column C")
}

func TestValidateStructureShortHeader(t *testing.T) {
	svc := newTestService()

	msgs := svc.ValidateStructure([]string{"NOMBRE", "FABRICANTE", "PRODUCTO_ID"})

	require.Len(t, msgs, 1)
	assert.Contains(t, msgs[0], "FECHA")
	assert.Contains(t, msgs[0], "column Y")
}

func TestValidateStructureIgnoresHeaderText(t *testing.T) {
	svc := newTestService()
	h := make([]string, 25)
	for i := range h {
		h[i] = "anything"
	}
	assert.Empty(t, svc.ValidateStructure(h))
}

func TestValidateStructureReportsEveryMissingColumn(t *testing.T) {
	svc := newTestService()
	assert.Len(t, svc.ValidateStructure(nil), 4)
}
