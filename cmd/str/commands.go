package str

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var (
	setCmd = &cobra.Command{
		Use:   "set [key] [value]",
		Short: "Sets the value for a key",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := args[0]
			value := args[1]
			if err := stringsClient.Set(key, []byte(value)); err != nil {
				return err
			} else {
				fmt.Println("set successfully")
			}
			return nil
		},
	}
	setNXCmd = &cobra.Command{
		Use:   "setnx [key] [value]",
		Short: "Sets the value for a key only if the key does not exist",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := args[0]
			value := args[1]
			if stored, err := stringsClient.SetNX(key, []byte(value)); err != nil {
				return err
			} else {
				fmt.Printf("key=%s, stored=%t\n", key, stored)
			}
			return nil
		},
	}
	setEXCmd = &cobra.Command{
		Use:   "setex [key] [seconds] [value]",
		Short: "Sets the value for a key with a TTL in seconds",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := args[0]
			seconds, err := strconv.ParseInt(args[1], 10, 64)
			if err != nil {
				return fmt.Errorf("seconds must be a number: %w", err)
			}
			value := args[2]
			if err := stringsClient.SetEX(key, seconds, []byte(value)); err != nil {
				return err
			} else {
				fmt.Println("setex successfully")
			}
			return nil
		},
	}
	pSetEXCmd = &cobra.Command{
		Use:   "psetex [key] [millis] [value]",
		Short: "Sets the value for a key with a TTL in milliseconds",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := args[0]
			millis, err := strconv.ParseInt(args[1], 10, 64)
			if err != nil {
				return fmt.Errorf("millis must be a number: %w", err)
			}
			value := args[2]
			if err := stringsClient.PSetEX(key, millis, []byte(value)); err != nil {
				return err
			} else {
				fmt.Println("psetex successfully")
			}
			return nil
		},
	}
	getCmd = &cobra.Command{
		Use:   "get [key]",
		Short: "Reads the value for a key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := args[0]
			if resp, ok, err := stringsClient.Get(key); err != nil {
				return err
			} else {
				fmt.Printf("key=%s, found=%v, resp=%s\n", key, ok, resp)
			}
			return nil
		},
	}
	getSetCmd = &cobra.Command{
		Use:   "getset [key] [value]",
		Short: "Sets the value for a key and returns the previous value",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := args[0]
			value := args[1]
			if prev, existed, err := stringsClient.GetSet(key, []byte(value)); err != nil {
				return err
			} else {
				fmt.Printf("key=%s, existed=%v, prev=%s\n", key, existed, prev)
			}
			return nil
		},
	}
	mGetCmd = &cobra.Command{
		Use:   "mget [key]...",
		Short: "Reads the values for multiple keys",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			vals, err := stringsClient.MGet(args...)
			if err != nil {
				return err
			}
			for i, val := range vals {
				if val == nil {
					fmt.Printf("key=%s, found=false\n", args[i])
				} else {
					fmt.Printf("key=%s, found=true, resp=%s\n", args[i], val)
				}
			}
			return nil
		},
	}
	mSetCmd = &cobra.Command{
		Use:   "mset [key value]...",
		Short: "Sets the values for multiple keys",
		Args:  evenArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := stringsClient.MSet(toPairs(args)...); err != nil {
				return err
			} else {
				fmt.Println("mset successfully")
			}
			return nil
		},
	}
	mSetNXCmd = &cobra.Command{
		Use:   "msetnx [key value]...",
		Short: "Sets the values for multiple keys only if none of the keys exist",
		Args:  evenArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if stored, err := stringsClient.MSetNX(toPairs(args)...); err != nil {
				return err
			} else {
				fmt.Printf("stored=%t\n", stored)
			}
			return nil
		},
	}
	incrCmd = &cobra.Command{
		Use:   "incr [key]",
		Short: "Adds one to the integer value of a key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if num, err := stringsClient.Incr(args[0]); err != nil {
				return err
			} else {
				fmt.Printf("key=%s, value=%d\n", args[0], num)
			}
			return nil
		},
	}
	decrCmd = &cobra.Command{
		Use:   "decr [key]",
		Short: "Subtracts one from the integer value of a key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if num, err := stringsClient.Decr(args[0]); err != nil {
				return err
			} else {
				fmt.Printf("key=%s, value=%d\n", args[0], num)
			}
			return nil
		},
	}
	incrByCmd = &cobra.Command{
		Use:   "incrby [key] [delta]",
		Short: "Adds a delta to the integer value of a key",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			delta, err := strconv.ParseInt(args[1], 10, 64)
			if err != nil {
				return fmt.Errorf("delta must be a number: %w", err)
			}
			if num, err := stringsClient.IncrBy(args[0], delta); err != nil {
				return err
			} else {
				fmt.Printf("key=%s, value=%d\n", args[0], num)
			}
			return nil
		},
	}
	decrByCmd = &cobra.Command{
		Use:   "decrby [key] [delta]",
		Short: "Subtracts a delta from the integer value of a key",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			delta, err := strconv.ParseInt(args[1], 10, 64)
			if err != nil {
				return fmt.Errorf("delta must be a number: %w", err)
			}
			if num, err := stringsClient.DecrBy(args[0], delta); err != nil {
				return err
			} else {
				fmt.Printf("key=%s, value=%d\n", args[0], num)
			}
			return nil
		},
	}
	incrByFloatCmd = &cobra.Command{
		Use:   "incrbyfloat [key] [delta]",
		Short: "Adds a decimal delta to the value of a key",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if val, err := stringsClient.IncrByFloat(args[0], []byte(args[1])); err != nil {
				return err
			} else {
				fmt.Printf("key=%s, value=%s\n", args[0], val)
			}
			return nil
		},
	}
	appendCmd = &cobra.Command{
		Use:   "append [key] [value]",
		Short: "Appends a value to a key",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if length, err := stringsClient.Append(args[0], []byte(args[1])); err != nil {
				return err
			} else {
				fmt.Printf("key=%s, length=%d\n", args[0], length)
			}
			return nil
		},
	}
	strLenCmd = &cobra.Command{
		Use:   "strlen [key]",
		Short: "Returns the length of the value of a key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if length, err := stringsClient.StrLen(args[0]); err != nil {
				return err
			} else {
				fmt.Printf("key=%s, length=%d\n", args[0], length)
			}
			return nil
		},
	}
	getRangeCmd = &cobra.Command{
		Use:   "getrange [key] [start] [end]",
		Short: "Returns a substring of the value of a key",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			start, err := strconv.ParseInt(args[1], 10, 64)
			if err != nil {
				return fmt.Errorf("start must be a number: %w", err)
			}
			end, err := strconv.ParseInt(args[2], 10, 64)
			if err != nil {
				return fmt.Errorf("end must be a number: %w", err)
			}
			if val, err := stringsClient.GetRange(args[0], start, end); err != nil {
				return err
			} else {
				fmt.Printf("key=%s, resp=%s\n", args[0], val)
			}
			return nil
		},
	}
	setRangeCmd = &cobra.Command{
		Use:   "setrange [key] [offset] [value]",
		Short: "Overwrites part of the value of a key at the given offset",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			offset, err := strconv.ParseInt(args[1], 10, 64)
			if err != nil {
				return fmt.Errorf("offset must be a number: %w", err)
			}
			if length, err := stringsClient.SetRange(args[0], offset, []byte(args[2])); err != nil {
				return err
			} else {
				fmt.Printf("key=%s, length=%d\n", args[0], length)
			}
			return nil
		},
	}
)

// evenArgs validates that the command got key value pairs
func evenArgs(cmd *cobra.Command, args []string) error {
	if len(args) == 0 || len(args)%2 != 0 {
		return fmt.Errorf("requires an even number of arguments (key value pairs)")
	}
	return nil
}

// toPairs converts the argument list into the pairs form the client expects
func toPairs(args []string) [][]byte {
	pairs := make([][]byte, len(args))
	for i, arg := range args {
		pairs[i] = []byte(arg)
	}
	return pairs
}
