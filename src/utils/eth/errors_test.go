package eth

import (
	"encoding/hex"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeDataError struct {
	message string
	data    interface{}
}

func (self *fakeDataError) Error() string          { return self.message }
func (self *fakeDataError) ErrorData() interface{} { return self.data }

func TestIsUserCancellation(t *testing.T) {
	assert.True(t, IsUserCancellation(errors.New("MetaMask Tx Signature: User denied transaction signature")))
	assert.True(t, IsUserCancellation(errors.New("user rejected the request")))
	assert.True(t, IsUserCancellation(errors.New("Request cancelled")))
	assert.False(t, IsUserCancellation(errors.New("execution reverted")))
	assert.False(t, IsUserCancellation(nil))
}

func TestDecodeKnownCustomError(t *testing.T) {
	selector := applicationRegistryAbi.Errors["AlreadyApplied"].ID.Bytes()[:4]
	err := decodeRevert(&fakeDataError{
		message: "execution reverted",
		data:    "0x" + hex.EncodeToString(selector),
	})

	var callErr *CallError
	assert.ErrorAs(t, err, &callErr)
	assert.Equal(t, "You have already applied to this job", callErr.Message)
	assert.Equal(t, "You have already applied to this job", Describe(err))
}

func TestDecodeStringRevert(t *testing.T) {
	// Error(string) with reason "nope"
	data := "0x08c379a0" +
		"0000000000000000000000000000000000000000000000000000000000000020" +
		"0000000000000000000000000000000000000000000000000000000000000004" +
		"6e6f706500000000000000000000000000000000000000000000000000000000"

	err := decodeRevert(&fakeDataError{message: "execution reverted", data: data})

	var callErr *CallError
	assert.ErrorAs(t, err, &callErr)
	assert.Equal(t, "nope", callErr.Message)
}

func TestDecodeUnknownSelectorTruncated(t *testing.T) {
	raw := "0xdeadbeef" + "00112233445566778899aabbccddeeff00112233445566778899aabbccddeeff" +
		"00112233445566778899aabbccddeeff00112233445566778899aabbccddeeff"

	err := decodeRevert(&fakeDataError{message: "execution reverted", data: raw})

	var callErr *CallError
	assert.ErrorAs(t, err, &callErr)
	assert.Contains(t, callErr.Message, "Call reverted")
	assert.LessOrEqual(t, len(callErr.Message), maxRawReasonLen+20)
}

func TestDecodePassesThroughPlainErrors(t *testing.T) {
	plain := errors.New("connection refused")
	assert.Equal(t, plain, decodeRevert(plain))
	assert.Nil(t, decodeRevert(nil))
	assert.Equal(t, "connection refused", Describe(plain))
}
