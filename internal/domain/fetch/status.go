// Package fetch holds the status vocabulary shared by every remote-backed view slot.
package fetch

// Status is the lifecycle of one remote-backed slot.
type Status string

const (
	StatusIdle    Status = "idle"
	StatusLoading Status = "loading"
	StatusOK      Status = "ok"
	StatusError   Status = "error"
)

// Seq identifies one issued request for a slot. A response is committed only when
// its Seq equals the slot's latest issued Seq.
type Seq uint64

// Next returns the sequence number for a newly issued request.
func (s Seq) Next() Seq {
	return s + 1
}
