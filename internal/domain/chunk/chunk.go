package chunk

import "fmt"

// FieldFileName is the metadata key every chunk is tagged and filtered by.
const FieldFileName = "file_name"

// Chunk is a bounded span of a source document stored with its embedding.
type Chunk struct {
	id       string
	fileName string
	index    int
	content  string
	vector   []float32
}

// New validates and creates a Chunk.
func New(id, fileName string, index int, content string, vector []float32) (Chunk, error) {
	if id == "" {
		return Chunk{}, fmt.Errorf("chunk ID is required")
	}
	if fileName == "" {
		return Chunk{}, fmt.Errorf("chunk %s: file name is required", id)
	}
	if index < 0 {
		return Chunk{}, fmt.Errorf("chunk %s: negative index %d", id, index)
	}
	if content == "" {
		return Chunk{}, fmt.Errorf("chunk %s: content is required", id)
	}
	if len(vector) == 0 {
		return Chunk{}, fmt.Errorf("chunk %s: vector is required", id)
	}
	return Chunk{id: id, fileName: fileName, index: index, content: content, vector: vector}, nil
}

// Reconstruct creates a Chunk without validation (storage hydration).
func Reconstruct(id, fileName string, index int, content string, vector []float32) Chunk {
	return Chunk{id: id, fileName: fileName, index: index, content: content, vector: vector}
}

// ID returns the chunk identifier.
func (c *Chunk) ID() string { return c.id }

// FileName returns the source file metadata value.
func (c *Chunk) FileName() string { return c.fileName }

// Index returns the ordinal of the chunk within its document.
func (c *Chunk) Index() int { return c.index }

// Content returns the chunk text.
func (c *Chunk) Content() string { return c.content }

// Vector returns the embedding vector.
func (c *Chunk) Vector() []float32 { return c.vector }
