// Copyright (C) 2023 Nyein Chan
// Licensed under the GNU General Public License v3.0

package core

import "encoding/json"

type receiptData struct {
	InvocationHash []byte   `json:"invocationHash"`
	Error          string   `json:"error"`
	Elapsed        float64  `json:"elapsed"`
	Output         [][]byte `json:"output"`
}

// Receipt records the outcome of one executed invocation.
// Output holds the values the contract finished, in order.
type Receipt struct {
	data *receiptData
}

func NewReceipt() *Receipt {
	return &Receipt{
		data: new(receiptData),
	}
}

func (rcp *Receipt) InvocationHash() []byte { return rcp.data.InvocationHash }
func (rcp *Receipt) Error() string          { return rcp.data.Error }
func (rcp *Receipt) Elapsed() float64       { return rcp.data.Elapsed }
func (rcp *Receipt) Output() [][]byte       { return rcp.data.Output }

func (rcp *Receipt) SetInvocationHash(val []byte) *Receipt {
	rcp.data.InvocationHash = val
	return rcp
}

func (rcp *Receipt) SetError(val string) *Receipt {
	rcp.data.Error = val
	return rcp
}

func (rcp *Receipt) SetElapsed(val float64) *Receipt {
	rcp.data.Elapsed = val
	return rcp
}

func (rcp *Receipt) SetOutput(val [][]byte) *Receipt {
	rcp.data.Output = val
	return rcp
}

// Marshal encodes receipt as bytes
func (rcp *Receipt) Marshal() ([]byte, error) {
	return json.Marshal(rcp.data)
}

// Unmarshal decodes receipt from bytes
func (rcp *Receipt) Unmarshal(b []byte) error {
	data := new(receiptData)
	if err := json.Unmarshal(b, data); err != nil {
		return err
	}
	rcp.data = data
	return nil
}

// MarshalJSON implements json.Marshaler
func (rcp *Receipt) MarshalJSON() ([]byte, error) {
	return rcp.Marshal()
}

// UnmarshalJSON implements json.Unmarshaler
func (rcp *Receipt) UnmarshalJSON(b []byte) error {
	return rcp.Unmarshal(b)
}
