package registration

import (
	"time"
)

// Payment 是报名台账中的一条不可变记录。
// (ContestID, PayerEmail) 上的复合唯一索引是"一人一赛只报一次"
// 不变量的原子保证：并发的重复报名会在插入时被数据库拒绝。
type Payment struct {
	ID         string  `gorm:"primarykey;type:varchar(36)" json:"id"`
	ContestID  string  `gorm:"uniqueIndex:idx_payment_contest_payer;type:varchar(36)" json:"contestId"`
	PayerEmail string  `gorm:"uniqueIndex:idx_payment_contest_payer;type:varchar(255)" json:"payerEmail"`
	Amount     float64 `json:"amount"`

	CreatedAt time.Time `json:"createdAt"`
}
