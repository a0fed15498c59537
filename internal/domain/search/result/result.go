package result

// Hit is a single retrieved chunk.
type Hit struct {
	chunkID  string
	fileName string
	content  string
	score    float64
}

// New creates a retrieval hit.
func New(chunkID, fileName, content string, score float64) Hit {
	return Hit{chunkID: chunkID, fileName: fileName, content: content, score: score}
}

// ChunkID returns the stored chunk identifier.
func (h Hit) ChunkID() string { return h.chunkID }

// FileName returns the file_name metadata of the chunk.
func (h Hit) FileName() string { return h.fileName }

// Content returns the chunk text.
func (h Hit) Content() string { return h.content }

// Score returns the cosine similarity in [0,1].
func (h Hit) Score() float64 { return h.score }
