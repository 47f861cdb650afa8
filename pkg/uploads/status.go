package uploads

//go:generate go run github.com/dmarkham/enumer -type Status -trimprefix Status -transform lower -json -text -yaml -output status.gen.go

// Status is the lifecycle state of one file in an upload batch.
type Status int

const (
	StatusPending Status = iota
	StatusUploading
	StatusSuccess
	StatusError
	StatusSkipped
)

// Done reports whether the file has reached a final state.
func (s Status) Done() bool {
	return s == StatusSuccess || s == StatusError || s == StatusSkipped
}
