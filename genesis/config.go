// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package genesis

import (
	"os"

	"github.com/asaskevich/govalidator"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/unfoldfi/unfold/builtin/feeschedule"
	"github.com/unfoldfi/unfold/unfold"
)

func init() {
	govalidator.TagMap["address"] = govalidator.Validator(func(str string) bool {
		_, err := unfold.ParseAddress(str)
		return err == nil
	})
	govalidator.TagMap["amount"] = govalidator.Validator(func(str string) bool {
		_, err := unfold.ParseUnits(str, unfold.Decimals)
		return err == nil
	})
}

// Config is the user customized deployment.
type Config struct {
	Name       string    `yaml:"name" valid:"required"`
	LaunchTime uint64    `yaml:"launch-time" valid:"-"`
	Emission   Emission  `yaml:"emission" valid:"-"`
	Tokens     []Token   `yaml:"tokens" valid:"-"`
	Pools      []Pool    `yaml:"pools" valid:"-"`
	Vestings   []Vesting `yaml:"vestings" valid:"-"`
	Accounts   []Account `yaml:"accounts" valid:"-"`
}

// Emission configures the governance token. Amounts are whole tokens, decimals allowed.
type Emission struct {
	Name          string `yaml:"name" valid:"required"`
	Address       string `yaml:"address" valid:"required,address"`
	Symbol        string `yaml:"symbol" valid:"required,length(1|11)"`
	InitialSupply string `yaml:"initial-supply" valid:"required,amount"`
	Governance    string `yaml:"governance" valid:"required,address"`
}

// Token configures a plain token ledger, e.g. a pool token.
type Token struct {
	Name    string `yaml:"name" valid:"required"`
	Address string `yaml:"address" valid:"required,address"`
	Symbol  string `yaml:"symbol" valid:"required,length(1|11)"`
}

// Pool configures a reward pool.
type Pool struct {
	Name           string               `yaml:"name" valid:"required"`
	Address        string               `yaml:"address" valid:"required,address"`
	PoolToken      string               `yaml:"pool-token" valid:"required,address"`
	RewardToken    string               `yaml:"reward-token,omitempty" valid:"address"` // defaults to the emission token
	Duration       feeschedule.Span     `yaml:"duration,omitempty" valid:"-"`           // defaults to 100d
	FeeBeneficiary string               `yaml:"fee-beneficiary" valid:"required,address"`
	Owner          string               `yaml:"owner,omitempty" valid:"address"` // defaults to governance
	PublicFunding  bool                 `yaml:"public-funding,omitempty" valid:"-"`
	FeeSchedule    feeschedule.Schedule `yaml:"fee-schedule,omitempty" valid:"-"` // defaults to feeschedule.Default
}

// Vesting configures a vesting contract funded with emission tokens by governance.
type Vesting struct {
	Name        string           `yaml:"name" valid:"required"`
	Address     string           `yaml:"address" valid:"required,address"`
	Beneficiary string           `yaml:"beneficiary" valid:"required,address"`
	Start       uint64           `yaml:"start,omitempty" valid:"-"` // defaults to launch time
	Cliff       feeschedule.Span `yaml:"cliff,omitempty" valid:"-"`
	Duration    feeschedule.Span `yaml:"duration,omitempty" valid:"-"`
	Amount      string           `yaml:"amount" valid:"required,amount"`
}

// Account receives an initial balance of a token.
type Account struct {
	Address string `yaml:"address" valid:"required,address"`
	Token   string `yaml:"token" valid:"required,address"`
	Balance string `yaml:"balance" valid:"required,amount"`
}

// LoadConfig reads a YAML deployment file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read genesis file")
	}
	return ParseConfig(data)
}

// ParseConfig decodes and validates a YAML deployment.
func ParseConfig(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, errors.Wrap(err, "decode genesis")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks field formats. Cross references are checked when the genesis is built.
func (c *Config) Validate() error {
	if _, err := govalidator.ValidateStruct(c); err != nil {
		return errors.WithMessage(err, "genesis")
	}
	// the emission cliff and vesting starts count from it
	if c.LaunchTime == 0 {
		return errors.New("genesis: launch-time required")
	}
	if _, err := govalidator.ValidateStruct(&c.Emission); err != nil {
		return errors.WithMessage(err, "emission")
	}
	for i := range c.Tokens {
		if _, err := govalidator.ValidateStruct(&c.Tokens[i]); err != nil {
			return errors.WithMessagef(err, "token %d", i)
		}
	}
	for i := range c.Pools {
		p := &c.Pools[i]
		if _, err := govalidator.ValidateStruct(p); err != nil {
			return errors.WithMessagef(err, "pool %q", p.Name)
		}
		if len(p.FeeSchedule) > 0 {
			if err := p.FeeSchedule.Validate(); err != nil {
				return errors.WithMessagef(err, "pool %q", p.Name)
			}
		}
	}
	for i := range c.Vestings {
		v := &c.Vestings[i]
		if _, err := govalidator.ValidateStruct(v); err != nil {
			return errors.WithMessagef(err, "vesting %q", v.Name)
		}
		if v.Duration == 0 || v.Cliff > v.Duration {
			return errors.Errorf("vesting %q: cliff %v must not exceed non-zero duration %v", v.Name, v.Cliff, v.Duration)
		}
	}
	for i := range c.Accounts {
		if _, err := govalidator.ValidateStruct(&c.Accounts[i]); err != nil {
			return errors.WithMessagef(err, "account %d", i)
		}
	}
	return nil
}

// Marshal encodes the config back to YAML.
func (c *Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}
