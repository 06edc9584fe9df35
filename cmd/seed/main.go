package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
)

// 往本地 API 灌演示数据：一个用户、若干商品、一笔订单。
// 需要 api 服务已经启动。

type apiResponse struct {
	Code int             `json:"code"`
	Msg  string          `json:"msg"`
	Data json.RawMessage `json:"data"`
}

func call(client *http.Client, method, url, token string, payload interface{}) (*apiResponse, error) {
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		body = bytes.NewReader(raw)
	}
	req, err := http.NewRequest(method, url, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", token)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var out apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, err
	}
	if out.Code != 0 {
		return &out, fmt.Errorf("%s %s: code=%d msg=%s", method, url, out.Code, out.Msg)
	}
	return &out, nil
}

func main() {
	baseURL := flag.String("addr", "http://localhost:8080/api", "API 地址")
	flag.Parse()

	client := &http.Client{}

	fmt.Println("[1/4] 注册演示用户...")
	_, err := call(client, http.MethodPost, *baseURL+"/users/register", "", map[string]string{
		"name":     "Demo User",
		"email":    "demo@ecomm.local",
		"password": "demo123",
	})
	if err != nil {
		// 已注册过时继续往下走
		fmt.Printf("    register: %v\n", err)
	}

	fmt.Println("[2/4] 登录获取 token...")
	loginResp, err := call(client, http.MethodPost, *baseURL+"/users/login", "", map[string]string{
		"email":    "demo@ecomm.local",
		"password": "demo123",
	})
	if err != nil {
		fmt.Printf("login failed: %v\n", err)
		os.Exit(1)
	}
	var login struct {
		User struct {
			ID int64 `json:"id"`
		} `json:"user"`
		Token string `json:"token"`
	}
	if err := json.Unmarshal(loginResp.Data, &login); err != nil {
		fmt.Printf("decode login response: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("[3/4] 创建演示商品...")
	products := []map[string]interface{}{
		{"name": "Mechanical Keyboard", "description": "87 键热插拔", "price": 39900},
		{"name": "Wireless Mouse", "description": "轻量化无线鼠标", "price": 19900},
		{"name": "USB-C Hub", "description": "7 口扩展坞", "price": 12900},
	}
	productIDs := make([]int64, 0, len(products))
	for _, p := range products {
		resp, err := call(client, http.MethodPost, *baseURL+"/products", login.Token, p)
		if err != nil {
			fmt.Printf("create product failed: %v\n", err)
			os.Exit(1)
		}
		var created struct {
			ID    int64 `json:"id"`
			Price int64 `json:"price"`
		}
		if err := json.Unmarshal(resp.Data, &created); err != nil {
			fmt.Printf("decode product response: %v\n", err)
			os.Exit(1)
		}
		productIDs = append(productIDs, created.ID)
	}

	fmt.Println("[4/4] 下一笔演示订单...")
	items := map[string]int64{
		fmt.Sprintf("%d", productIDs[0]): 1,
		fmt.Sprintf("%d", productIDs[1]): 2,
	}
	// 39900*1 + 19900*2
	_, err = call(client, http.MethodPost, *baseURL+"/orders", login.Token, map[string]interface{}{
		"user_id":      login.User.ID,
		"items":        items,
		"total_amount": 79700,
	})
	if err != nil {
		fmt.Printf("place order failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("done ✅")
}
