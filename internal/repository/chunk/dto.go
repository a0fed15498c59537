package chunk

import (
	"encoding/binary"
	"math"
	"strconv"

	domchunk "github.com/kailas-cloud/cvdex/internal/domain/chunk"
)

// buildHashFields converts a domain Chunk into a flat map[string]string for HSET.
func buildHashFields(c *domchunk.Chunk) map[string]string {
	return map[string]string{
		FieldFileName: c.FileName(),
		fieldContent:  c.Content(),
		fieldIndex:    strconv.Itoa(c.Index()),
		fieldVector:   vectorToBytes(c.Vector()),
	}
}

func vectorToBytes(v []float32) string {
	buf := make([]byte, len(v)*4)
	for i, f := range v {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return string(buf)
}
