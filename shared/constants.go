package shared

// Hash strategy names accepted by Config.Strategy.
const (
	StrategySHA512 = "sha512"
	StrategyXXHash = "xxhash"
	StrategyDouble = "double"
)

// MemberHeader carries the member queried by GET requests to bloomd.
const MemberHeader = "Member"
