package main

import (
	"fmt"

	"github.com/zkrsa/circuits/circuits"
	"github.com/zkrsa/circuits/pipeline"
	"github.com/zkrsa/circuits/rsakeys"
)

// End-to-end demo over the smallest stock shape: generate a key, sign a
// message, run setup, prove and verify.
func main() {
	shape := circuits.Shape1024x64

	fmt.Println("Generating RSA key...")
	priv, err := rsakeys.Generate(int(shape.ModulusBits))
	if err != nil {
		panic(err)
	}
	fmt.Println("Key generated")

	message := []byte("hello, zero knowledge")
	sig, err := rsakeys.Sign(priv, message)
	if err != nil {
		panic(err)
	}
	fmt.Println("Message signed")

	fmt.Printf("Running setup for %s...\n", shape)
	artifacts, err := pipeline.Setup(shape, pipeline.SeededEntropy([]byte("demo-setup")))
	if err != nil {
		panic(err)
	}
	fmt.Println("Setup done")

	modulusLE, err := rsakeys.ModulusLE(rsakeys.Public(priv))
	if err != nil {
		panic(err)
	}

	fmt.Println("Proving...")
	proof, err := pipeline.Prove(artifacts.Params, artifacts.ProvingKey, shape, modulusLE, message, rsakeys.SignatureLE(sig))
	if err != nil {
		panic(err)
	}
	fmt.Printf("Proof generated (%d bytes)\n", len(proof))

	fmt.Println("Verifying...")
	valid, err := pipeline.Verify(artifacts.Params, artifacts.VerifyingKey, proof, shape)
	if err != nil {
		panic(err)
	}
	if !valid {
		panic("proof rejected")
	}
	fmt.Println("Proof is valid")
}
