package models

// Fees holds the four configured fee amounts. The JSON form carries each
// amount as a decimal string, which doubles as the display projection
// returned by the fees query.
//
// ProfileFee is declared for parity with the fee schedule but no current
// operation applies it; profile writes are free.
type Fees struct {
	PostFee    Amount `json:"post_fee" yaml:"post_fee"`
	ThreadFee  Amount `json:"thread_fee" yaml:"thread_fee"`
	ProfileFee Amount `json:"profile_fee" yaml:"profile_fee"`
	FriendFee  Amount `json:"friend_fee" yaml:"friend_fee"`
}
