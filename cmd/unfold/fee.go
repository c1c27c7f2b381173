// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/holiman/uint256"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/unfoldfi/unfold/builtin/feeschedule"
	"github.com/unfoldfi/unfold/genesis"
	"github.com/unfoldfi/unfold/unfold"
)

func feeAction(ctx *cli.Context) error {
	gen, err := selectGenesis(ctx)
	if err != nil {
		return err
	}
	pool, err := findPool(gen.Config(), ctx.String(poolFlag.Name))
	if err != nil {
		return err
	}

	var amount *uint256.Int
	if s := ctx.String(amountFlag.Name); s != "" {
		v, err := unfold.ParseUnits(s, unfold.Decimals)
		if err != nil {
			return errors.WithMessage(err, "amount")
		}
		var overflow bool
		if amount, overflow = uint256.FromBig(v); overflow {
			return errors.Errorf("amount %s out of range", s)
		}
	}

	schedule := pool.FeeSchedule
	if len(schedule) == 0 {
		schedule = feeschedule.Default()
	}
	fmt.Printf("Pool %v (%v)\n", pool.Name, pool.Address)
	return writeFeeTable(os.Stdout, schedule, amount)
}

func findPool(cfg *genesis.Config, key string) (*genesis.Pool, error) {
	if key == "" {
		return nil, errors.Errorf("missing -%s", poolFlag.Name)
	}
	for i := range cfg.Pools {
		p := &cfg.Pools[i]
		if p.Name == key || strings.EqualFold(p.Address, key) {
			return p, nil
		}
	}
	return nil, errors.Errorf("pool %q not found in %v", key, cfg.Name)
}

// writeFeeTable prints one row per tier. With an amount, the fee and net withdrawal of each tier are priced.
func writeFeeTable(w io.Writer, schedule feeschedule.Schedule, amount *uint256.Int) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	header := "AFTER\tFEE"
	if amount != nil {
		header += "\tFEE AMOUNT\tNET"
	}
	fmt.Fprintln(tw, header)
	for _, tier := range schedule {
		row := fmt.Sprintf("%v\t%v%%", tier.After, decimal.New(int64(tier.Bp), -2))
		if amount != nil {
			fee := feeschedule.Fee(amount, tier.Bp)
			net := new(uint256.Int).Sub(amount, fee)
			row += fmt.Sprintf("\t%v\t%v",
				unfold.FormatUnits(fee.ToBig(), unfold.Decimals),
				unfold.FormatUnits(net.ToBig(), unfold.Decimals))
		}
		fmt.Fprintln(tw, row)
	}
	return tw.Flush()
}

func genesisAction(ctx *cli.Context) error {
	gen, err := selectGenesis(ctx)
	if err != nil {
		return err
	}
	data, err := gen.Config().Marshal()
	if err != nil {
		return err
	}
	fmt.Printf("# genesis id: %v\n", gen.ID())
	_, err = os.Stdout.Write(data)
	return err
}
