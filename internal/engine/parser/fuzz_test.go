package parser

import (
	"testing"
)

func FuzzAnalyze(f *testing.F) {
	f.Add([]byte(`import { useState } from 'react'
export default function App() {
	const [n, setN] = useState(0)
	return <div onClick={() => setN(n + 1)}>{n}</div>
}`))
	f.Add([]byte(`export * from './sub'
export { a as b, type C } from "./x";`))
	p, err := NewDefaultParser()
	if err != nil {
		f.Fatal(err)
	}
	f.Fuzz(func(t *testing.T, data []byte) {
		_, _, _ = p.Analyze("fuzz.tsx", data)
	})
}

func FuzzParseModule(f *testing.F) {
	f.Add([]byte(`export const x = 1, { y } = z;
export async function load() {}`))
	p, err := NewDefaultParser()
	if err != nil {
		f.Fatal(err)
	}
	f.Fuzz(func(t *testing.T, data []byte) {
		_, _ = p.ParseModule("fuzz.ts", data)
	})
}
