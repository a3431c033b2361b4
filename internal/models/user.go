package models

import "golang.org/x/crypto/bcrypt"

// Evaluator is a panel account: the HR reviewer who creates evaluations and
// finalizes projective scores.
type Evaluator struct {
	ID       uint   `gorm:"primaryKey"`
	Email    string `gorm:"size:254;uniqueIndex"`
	Name     string `gorm:"size:200"`
	Password string `gorm:"size:100"`
}

// SetPassword hashes and stores the password.
func (u *Evaluator) SetPassword(plain string) error {
	hashed, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.Password = string(hashed)
	return nil
}

// CheckPassword compares a candidate password against the stored hash.
func (u *Evaluator) CheckPassword(plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(plain)) == nil
}
