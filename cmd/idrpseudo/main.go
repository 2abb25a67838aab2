// Command idrpseudo converts ranks into pseudo-values under a two-component Gaussian mixture.
//
// Usage:
//
//	idrpseudo compute --mu 1 --sigma 1 --lambda 0.5 < ranks.txt
//	idrpseudo simulate --n 1000 --mu 2 --sigma 1 --rho 0.8 --signal-fraction 0.3
//	idrpseudo bench --n 10000 --strategy halley
//
// Every persistent flag can also be set through an IDRPSEUDO_* environment variable
// (for example IDRPSEUDO_LAMBDA=0.7), including from a .env file in the working directory.
package main

func main() {
	Execute()
}
