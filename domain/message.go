package domain

// SendParams are the forward-leg parameters for a cross-chain share delivery:
// where the beneficiary's shares should land once minted on the hub.
type SendParams struct {
	DstChain  ChainID `json:"dst_chain"`
	Recipient Address `json:"recipient"`
}

// DepositInstruction is the instruction payload carried by an inbound
// value+instruction message: the return-leg send parameters, the depositor's
// slippage bound, and the fee the depositor prepaid for the return leg.
type DepositInstruction struct {
	Return    SendParams `json:"return"`
	MinShares uint64     `json:"min_shares"`
	MinFee    uint64     `json:"min_fee"`
}

// InboundMessage is a value+instruction message delivered by the messaging
// transport to the composer. Amount is the underlying-asset value that
// arrived with the message, already in the composer's custody.
type InboundMessage struct {
	GUID        string
	SrcChain    ChainID
	Sender      Address
	Amount      uint64
	Instruction DepositInstruction
}
