package main

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/hex"
	"encoding/pem"
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/zkrsa/circuits/circuits"
	"github.com/zkrsa/circuits/pipeline"
	"github.com/zkrsa/circuits/rsakeys"
)

var commands = []*cli.Command{
	{
		Name:  "keygen",
		Usage: "Generate an RSA test key",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "bits",
				Usage: "Modulus bit length",
				Value: 1024,
			},
			&cli.StringFlag{
				Name:     "output",
				Aliases:  []string{"o"},
				Usage:    "Output path for the PEM-encoded private key",
				Required: true,
			},
		},
		Action: GenerateKey,
	},
	{
		Name:  "sign",
		Usage: "Sign a message with a test key (PKCS#1 v1.5, SHA-256)",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "key",
				Aliases:  []string{"k"},
				Usage:    "Path to the PEM-encoded private key",
				Required: true,
			},
			&cli.StringFlag{
				Name:     "message",
				Aliases:  []string{"m"},
				Usage:    "Path to the message file",
				Required: true,
			},
			&cli.StringFlag{
				Name:     "output",
				Aliases:  []string{"o"},
				Usage:    "Output path for the raw signature",
				Required: true,
			},
		},
		Action: SignMessage,
	},
	{
		Name:  "setup",
		Usage: "Derive parameters and keys for a circuit shape",
		Flags: []cli.Flag{
			&cli.UintFlag{
				Name:  "msg-len",
				Usage: "Supported message byte length (selects the circuit shape)",
				Value: 64,
			},
			&cli.StringFlag{
				Name:  "seed",
				Usage: "Hex seed for deterministic setup (omit for crypto/rand)",
			},
			&cli.StringFlag{
				Name:     "params",
				Usage:    "Output path for the circuit parameters",
				Required: true,
			},
			&cli.StringFlag{
				Name:     "proving-key",
				Aliases:  []string{"pk"},
				Usage:    "Output path for the proving key",
				Required: true,
			},
			&cli.StringFlag{
				Name:     "verification-key",
				Aliases:  []string{"vk"},
				Usage:    "Output path for the verification key",
				Required: true,
			},
		},
		Action: SetupShape,
	},
	{
		Name:  "prove",
		Usage: "Generate a proof of RSA signature validity",
		Flags: []cli.Flag{
			&cli.UintFlag{
				Name:  "msg-len",
				Usage: "Supported message byte length (selects the circuit shape)",
				Value: 64,
			},
			&cli.StringFlag{
				Name:     "params",
				Usage:    "Path to the circuit parameters",
				Required: true,
			},
			&cli.StringFlag{
				Name:     "proving-key",
				Aliases:  []string{"pk"},
				Usage:    "Path to the proving key",
				Required: true,
			},
			&cli.StringFlag{
				Name:     "key",
				Aliases:  []string{"k"},
				Usage:    "Path to the PEM-encoded private key (public part is used)",
				Required: true,
			},
			&cli.StringFlag{
				Name:     "message",
				Aliases:  []string{"m"},
				Usage:    "Path to the message file",
				Required: true,
			},
			&cli.StringFlag{
				Name:     "signature",
				Aliases:  []string{"s"},
				Usage:    "Path to the raw signature",
				Required: true,
			},
			&cli.StringFlag{
				Name:     "output",
				Aliases:  []string{"o"},
				Usage:    "Output path for the proof",
				Required: true,
			},
		},
		Action: GenerateProof,
	},
	{
		Name:  "verify",
		Usage: "Verify a proof",
		Flags: []cli.Flag{
			&cli.UintFlag{
				Name:  "msg-len",
				Usage: "Supported message byte length (selects the circuit shape)",
				Value: 64,
			},
			&cli.StringFlag{
				Name:     "params",
				Usage:    "Path to the circuit parameters",
				Required: true,
			},
			&cli.StringFlag{
				Name:     "verification-key",
				Aliases:  []string{"vk"},
				Usage:    "Path to the verification key",
				Required: true,
			},
			&cli.StringFlag{
				Name:     "proof",
				Aliases:  []string{"p"},
				Usage:    "Path to the proof",
				Required: true,
			},
		},
		Action: VerifyProof,
	},
}

func main() {
	app := &cli.App{
		Name:     "zkrsa-cli",
		Usage:    "RSA signature proof tools",
		Commands: commands,
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func GenerateKey(cCtx *cli.Context) error {
	fmt.Println("Generating key...")
	priv, err := rsakeys.Generate(cCtx.Int("bits"))
	if err != nil {
		return err
	}

	block := &pem.Block{Type: "RSA PRIVATE KEY", Bytes: x509.MarshalPKCS1PrivateKey(priv)}
	outputPath := cCtx.String("output")
	if err := os.WriteFile(outputPath, pem.EncodeToMemory(block), 0600); err != nil {
		return fmt.Errorf("failed to write key file: %w", err)
	}
	fmt.Printf("Successfully wrote private key to %s\n", outputPath)
	return nil
}

func SignMessage(cCtx *cli.Context) error {
	priv, err := readPrivateKey(cCtx.String("key"))
	if err != nil {
		return err
	}
	msg, err := os.ReadFile(cCtx.String("message"))
	if err != nil {
		return fmt.Errorf("failed to read message file: %w", err)
	}

	sig, err := rsakeys.Sign(priv, msg)
	if err != nil {
		return err
	}

	outputPath := cCtx.String("output")
	if err := os.WriteFile(outputPath, sig, 0644); err != nil {
		return fmt.Errorf("failed to write signature file: %w", err)
	}
	fmt.Printf("Successfully wrote signature to %s\n", outputPath)
	return nil
}

func SetupShape(cCtx *cli.Context) error {
	shape, err := shapeForMsgLen(cCtx.Uint("msg-len"))
	if err != nil {
		return err
	}

	entropy := io.Reader(rand.Reader)
	if seedHex := cCtx.String("seed"); seedHex != "" {
		seed, err := hex.DecodeString(seedHex)
		if err != nil {
			return fmt.Errorf("failed to decode seed: %w", err)
		}
		entropy = pipeline.SeededEntropy(seed)
	}

	fmt.Printf("Running setup for %s...\n", shape)
	artifacts, err := pipeline.Setup(shape, entropy)
	if err != nil {
		return fmt.Errorf("failed to setup circuit: %w", err)
	}

	for _, out := range []struct {
		path string
		data []byte
	}{
		{cCtx.String("params"), artifacts.Params},
		{cCtx.String("proving-key"), artifacts.ProvingKey},
		{cCtx.String("verification-key"), artifacts.VerifyingKey},
	} {
		if err := os.WriteFile(out.path, out.data, 0644); err != nil {
			return fmt.Errorf("failed to write output file: %w", err)
		}
		fmt.Printf("Successfully wrote %s\n", out.path)
	}
	return nil
}

func GenerateProof(cCtx *cli.Context) error {
	shape, err := shapeForMsgLen(cCtx.Uint("msg-len"))
	if err != nil {
		return err
	}

	params, err := os.ReadFile(cCtx.String("params"))
	if err != nil {
		return fmt.Errorf("failed to read parameters file: %w", err)
	}
	provingKey, err := os.ReadFile(cCtx.String("proving-key"))
	if err != nil {
		return fmt.Errorf("failed to read proving key file: %w", err)
	}

	priv, err := readPrivateKey(cCtx.String("key"))
	if err != nil {
		return err
	}
	msg, err := os.ReadFile(cCtx.String("message"))
	if err != nil {
		return fmt.Errorf("failed to read message file: %w", err)
	}
	sig, err := os.ReadFile(cCtx.String("signature"))
	if err != nil {
		return fmt.Errorf("failed to read signature file: %w", err)
	}

	modulusLE, err := rsakeys.ModulusLE(rsakeys.Public(priv))
	if err != nil {
		return fmt.Errorf("failed to encode modulus: %w", err)
	}

	fmt.Println("Generating proof...")
	proof, err := pipeline.Prove(params, provingKey, shape, modulusLE, msg, rsakeys.SignatureLE(sig))
	if err != nil {
		return fmt.Errorf("failed to generate proof: %w", err)
	}

	outputPath := cCtx.String("output")
	if err := os.WriteFile(outputPath, proof, 0644); err != nil {
		return fmt.Errorf("failed to write proof file: %w", err)
	}
	fmt.Printf("Successfully wrote proof to %s\n", outputPath)
	return nil
}

func VerifyProof(cCtx *cli.Context) error {
	shape, err := shapeForMsgLen(cCtx.Uint("msg-len"))
	if err != nil {
		return err
	}

	params, err := os.ReadFile(cCtx.String("params"))
	if err != nil {
		return fmt.Errorf("failed to read parameters file: %w", err)
	}
	verifyingKey, err := os.ReadFile(cCtx.String("verification-key"))
	if err != nil {
		return fmt.Errorf("failed to read verification key file: %w", err)
	}
	proof, err := os.ReadFile(cCtx.String("proof"))
	if err != nil {
		return fmt.Errorf("failed to read proof file: %w", err)
	}

	valid, err := pipeline.Verify(params, verifyingKey, proof, shape)
	if err != nil {
		return fmt.Errorf("failed to verify proof: %w", err)
	}
	if !valid {
		return fmt.Errorf("proof is invalid")
	}
	fmt.Println("Proof is valid")
	return nil
}

func shapeForMsgLen(msgLen uint) (circuits.Shape, error) {
	for _, s := range circuits.Shapes() {
		if s.MaxMsgLen == msgLen {
			return s, nil
		}
	}
	return circuits.Shape{}, fmt.Errorf("no stock shape supports message length %d", msgLen)
}

func readPrivateKey(path string) (*rsa.PrivateKey, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read key file: %w", err)
	}
	block, _ := pem.Decode(raw)
	if block == nil || block.Type != "RSA PRIVATE KEY" {
		return nil, fmt.Errorf("no RSA private key found in %s", path)
	}
	priv, err := x509.ParsePKCS1PrivateKey(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("failed to parse private key: %w", err)
	}
	return priv, nil
}
