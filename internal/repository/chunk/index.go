package chunk

import "github.com/kailas-cloud/cvdex/internal/db"

// fileNameSeparator replaces the default "," tag separator. document.ValidateFileName
// rejects "/", so every file name is indexed as exactly one tag.
const fileNameSeparator = "/"

// buildIndex describes the chunk schema:
// file_name TAG SEPARATOR / CASESENSITIVE, __content TEXT, chunk_index NUMERIC, __vector AS vector HNSW/COSINE.
func buildIndex(name, prefix string, vectorDim int, hnsw HNSWConfig) (*db.IndexDefinition, error) {
	return db.NewIndex(name).
		Prefix(prefix).
		Tag(FieldFileName, true).SeparatedBy(fileNameSeparator).
		Text(fieldContent).
		Numeric(fieldIndex).
		Vector(fieldVector, db.VectorOptions{
			Dim:         vectorDim,
			Distance:    db.DistanceCosine,
			M:           hnsw.M,
			EFConstruct: hnsw.EFConstruct,
		}).As(vectorAttr).
		Build()
}
