// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package utils

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/vechain/pledge/builtin/staker/bucket"
	"github.com/vechain/pledge/pledge"
)

// AddressVar parses the named path variable as an address.
func AddressVar(req *http.Request, name string) (pledge.Address, error) {
	addr, err := pledge.ParseAddress(mux.Vars(req)[name])
	if err != nil {
		return pledge.Address{}, BadRequest(errors.WithMessage(err, name))
	}
	return *addr, nil
}

// Uint64Var parses the named path variable as a decimal uint64.
func Uint64Var(req *http.Request, name string) (uint64, error) {
	v, err := strconv.ParseUint(mux.Vars(req)[name], 10, 64)
	if err != nil {
		return 0, BadRequest(errors.WithMessage(err, name))
	}
	return v, nil
}

// BucketVar parses the named path variables "day" and "period" as a bucket.
func BucketVar(req *http.Request) (bucket.Bucket, error) {
	vars := mux.Vars(req)
	b, err := bucket.Parse(vars["day"] + "/" + vars["period"])
	if err != nil {
		return bucket.Bucket{}, BadRequest(errors.WithMessage(err, "bucket"))
	}
	return b, nil
}
