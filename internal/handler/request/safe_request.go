package request

// SafeURI /safes/:address
type SafeURI struct {
	Address string `uri:"address" binding:"required,evm_address"`
}

// ConfirmURI /safes/:address/transactions/:hash/confirm
type ConfirmURI struct {
	Address string `uri:"address" binding:"required,evm_address"`
	Hash    string `uri:"hash" binding:"required,tx_hash"`
}

// TransferURI /safes/:address/limits/:token/transfers
type TransferURI struct {
	Address string `uri:"address" binding:"required,evm_address"`
	Token   string `uri:"token" binding:"required,evm_address"`
}

// TransferRequest amount 以 token 单位表示 (例如 "1.5")
type TransferRequest struct {
	To     string `json:"to" binding:"required,evm_address"`
	Amount string `json:"amount" binding:"required,token_amount"`
}
