// Copyright 2026 Oliver Eikemeier. All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0

package a

type pool struct {
	files []*conn // want `Created member 'pool.files' is not released by the Close method \(dg:memberclose\)`
	main  *conn
}

func newPool() *pool {
	p := &pool{}
	p.main = dial()

	for range 3 {
		p.files = append(p.files, dial())
	}

	return p
}

func (p *pool) Close() error {
	return p.main.Close()
}

type cache struct {
	files []*conn
}

func newCache() *cache {
	c := &cache{}
	c.files = append(c.files, dial())

	return c
}

func (c *cache) Close() error {
	for _, f := range c.files {
		f.Close()
	}

	return nil
}

type bag struct {
	c *conn // want `Created member 'bag.c' is not released by the Close method \(dg:memberclose\)`
}

func newBag() *bag {
	return &bag{c: dial()}
}

// pair has no Close method of its own: its connections are owned and
// released through the containers holding it.
type pair struct {
	in  *conn
	out *conn
}

type book struct {
	pairs []pair
}

func newBook() *book {
	b := &book{}
	b.pairs = append(b.pairs, pair{in: dial(), out: dial()})

	return b
}

func (b *book) Close() error {
	for _, p := range b.pairs {
		p.in.Close()
		p.out.Close()
	}

	return nil
}

type sloppyBook struct {
	pairs []pair // want `Created member 'sloppyBook.pairs' is not released by the Close method \(dg:memberclose\)`
}

func newSloppyBook() *sloppyBook {
	b := &sloppyBook{}
	b.pairs = append(b.pairs, pair{in: dial(), out: dial()})

	return b
}

func (b *sloppyBook) Close() error {
	for _, p := range b.pairs {
		p.in.Close()
	}

	return nil
}
