package stats

// Derivation coefficients. These are contract values, not tuning knobs.
const (
	baseHealth   = 50
	healthPerCon = 5
	healthPerLvl = 10

	baseMana    = 30
	manaPerWill = 3
	manaPerLvl  = 5

	baseStamina   = 100
	staminaPerCon = 3
	staminaPerAgi = 2
	staminaPerLvl = 5

	baseCarry   = 50
	carryPerStr = 10
)

// DerivedStats holds the resource pools and secondary values computed from
// CoreAttributes and level. Current values never exceed their maxima and
// never drop below zero.
type DerivedStats struct {
	MaxHealth int
	Health    int

	MaxMana int
	Mana    int

	MaxStamina int
	Stamina    int

	CarryCapacity int
	Initiative    int
}

// Derive computes a fresh DerivedStats for the given attributes and level,
// with every pool filled to its maximum.
//
// Precondition: level >= 1.
// Postcondition: Health == MaxHealth, Mana == MaxMana, Stamina == MaxStamina.
func Derive(attrs CoreAttributes, level int) *DerivedStats {
	if level < 1 {
		panic("stats: Derive called with level < 1")
	}
	d := &DerivedStats{
		MaxHealth:     baseHealth + attrs.Constitution*healthPerCon + (level-1)*healthPerLvl,
		MaxMana:       baseMana + attrs.Willpower*manaPerWill + (level-1)*manaPerLvl,
		MaxStamina:    baseStamina + attrs.Constitution*staminaPerCon + attrs.Agility*staminaPerAgi + (level-1)*staminaPerLvl,
		CarryCapacity: baseCarry + attrs.Strength*carryPerStr,
		Initiative:    attrs.Initiative(),
	}
	d.Health = d.MaxHealth
	d.Mana = d.MaxMana
	d.Stamina = d.MaxStamina
	return d
}

// Rescale recomputes the maxima for new attributes or a new level while
// preserving the percentage each current pool sits at, not its absolute
// value. A living combatant never rescales to zero health.
//
// Precondition: level >= 1.
func (d *DerivedStats) Rescale(attrs CoreAttributes, level int) {
	healthPct := d.fraction(d.Health, d.MaxHealth)
	manaPct := d.fraction(d.Mana, d.MaxMana)
	staminaPct := d.fraction(d.Stamina, d.MaxStamina)

	*d = *Derive(attrs, level)

	d.Health = scalePool(d.MaxHealth, healthPct)
	d.Mana = scalePool(d.MaxMana, manaPct)
	d.Stamina = scalePool(d.MaxStamina, staminaPct)
}

func (d *DerivedStats) fraction(cur, maximum int) float64 {
	if maximum <= 0 {
		return 1.0
	}
	return float64(cur) / float64(maximum)
}

func scalePool(maximum int, pct float64) int {
	v := int(float64(maximum) * pct)
	if pct > 0 && v == 0 {
		v = 1
	}
	return min(v, maximum)
}

// Alive reports whether the combatant has health remaining.
func (d *DerivedStats) Alive() bool {
	return d.Health > 0
}

// HealthFraction returns current health as a fraction of maximum in [0, 1].
func (d *DerivedStats) HealthFraction() float64 {
	if d.MaxHealth <= 0 {
		return 0
	}
	return float64(d.Health) / float64(d.MaxHealth)
}

// ManaFraction returns current mana as a fraction of maximum in [0, 1].
func (d *DerivedStats) ManaFraction() float64 {
	if d.MaxMana <= 0 {
		return 0
	}
	return float64(d.Mana) / float64(d.MaxMana)
}

// StaminaFraction returns current stamina as a fraction of maximum in [0, 1].
func (d *DerivedStats) StaminaFraction() float64 {
	if d.MaxStamina <= 0 {
		return 0
	}
	return float64(d.Stamina) / float64(d.MaxStamina)
}

// ApplyDamage reduces health by amount, clamped at zero.
//
// Precondition: amount >= 0.
// Postcondition: Health >= 0; Alive() is false once Health reaches 0.
func (d *DerivedStats) ApplyDamage(amount int) {
	if amount < 0 {
		panic("stats: ApplyDamage called with negative amount")
	}
	d.Health = max(0, d.Health-amount)
}

// Heal raises health by amount, clamped at MaxHealth.
//
// Precondition: amount >= 0.
func (d *DerivedStats) Heal(amount int) {
	if amount < 0 {
		panic("stats: Heal called with negative amount")
	}
	d.Health = min(d.MaxHealth, d.Health+amount)
}

// UseMana debits amount from the mana pool. Returns false and debits nothing
// when the pool is insufficient; there is never a partial debit.
func (d *DerivedStats) UseMana(amount int) bool {
	if amount > d.Mana {
		return false
	}
	d.Mana -= amount
	return true
}

// UseStamina debits amount from the stamina pool. Returns false and debits
// nothing when the pool is insufficient; there is never a partial debit.
func (d *DerivedStats) UseStamina(amount int) bool {
	if amount > d.Stamina {
		return false
	}
	d.Stamina -= amount
	return true
}

// RestoreMana raises mana by amount, clamped at MaxMana.
//
// Precondition: amount >= 0.
func (d *DerivedStats) RestoreMana(amount int) {
	if amount < 0 {
		panic("stats: RestoreMana called with negative amount")
	}
	d.Mana = min(d.MaxMana, d.Mana+amount)
}

// RestoreStamina raises stamina by amount, clamped at MaxStamina.
//
// Precondition: amount >= 0.
func (d *DerivedStats) RestoreStamina(amount int) {
	if amount < 0 {
		panic("stats: RestoreStamina called with negative amount")
	}
	d.Stamina = min(d.MaxStamina, d.Stamina+amount)
}
